package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"liferec/internal/core/normalize"
	perr "liferec/internal/platform/errors"
	"liferec/internal/platform/testkit"
	"liferec/internal/services/api/check/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeStdin(t *testing.T) {
	out, err := run(t, "유엔(UN) 회의에 참석함", "analyze", "--policy-version", "2023-09")
	require.NoError(t, err)

	var res domain.AnalyzeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "유엔(UN)", res.Hits[0].Span)
	assert.Equal(t, "2023-09", res.PolicyVersion)
}

func TestAnalyzeFileAndFailOnHits(t *testing.T) {
	path := testkit.WriteFile(t, "record.txt", "NAVER 블로그")
	out, err := run(t, "", "analyze", "--fail-on-hits", path)
	require.ErrorIs(t, err, ErrHitsFound)
	assert.Contains(t, out, `"span":"NAVER"`)

	_, err = run(t, "학교에서 봉사 활동을 했다", "analyze", "--fail-on-hits", "-")
	require.NoError(t, err)
}

func TestAnalyzeBadFlags(t *testing.T) {
	_, err := run(t, "x", "analyze", "--policy-version", "2024-3")
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))

	_, err = run(t, "x", "analyze", "--min-conf", "1.5")
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))

	_, err = run(t, "", "analyze", "/does/not/exist.txt")
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}

func TestRewriteText(t *testing.T) {
	out, err := run(t, "Zoom으로 발표하고 토익을 준비했다", "rewrite", "--text")
	require.NoError(t, err)
	assert.Equal(t, "화상 회의로 발표하고  준비했다", out)

	out, err = run(t, "Zoom으로 발표", "rewrite", "--min-conf", "0.99")
	require.NoError(t, err)
	var res domain.RewriteOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Zoom으로 발표", res.Text)
	assert.Equal(t, 1, res.Summary.NeedsReview)
}

func TestBytes(t *testing.T) {
	out, err := run(t, "가 나\r\n", "bytes", "--normalize")
	require.NoError(t, err)
	var rep normalize.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 5, rep.Chars)
	require.Len(t, rep.Suspicious, 2)
	require.NotNil(t, rep.Normalized)
	assert.Equal(t, "가 나\n", *rep.Normalized)

	out, err = run(t, "가", "bytes")
	require.NoError(t, err)
	assert.NotContains(t, out, "normalized")

	_, err = run(t, "가", "bytes", "--newline", "cr")
	require.Error(t, err)
	assert.Equal(t, "newline", perr.WireFrom(err).Field)
}

func TestRulesAndAlternateTable(t *testing.T) {
	out, err := run(t, "", "rules", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"policy_version\": \"2024-03\"")

	table := `version: 1
policy_version: "2030-01"
rules:
  - id: only
    pattern: 'ACME'
    label: 상호명
    replacement: 회사
    confidence: 0.95
    source: {doc: test}
`
	path := testkit.WriteFile(t, "rules.yaml", table)
	out, err = run(t, "", "rules", "--rules", path)
	require.NoError(t, err)
	var res domain.RulesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "2030-01", res.PolicyVersion)
	assert.Equal(t, "only", res.Rules[0].ID)
}

func TestSemanticNeedsProvider(t *testing.T) {
	t.Setenv("CORE_EMBED_PROVIDER", "none")
	_, err := run(t, "x", "analyze", "--semantic")
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"service":"liferec-check"`)
}
