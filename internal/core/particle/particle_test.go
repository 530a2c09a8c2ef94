package particle

import "testing"

func TestHasBatchim(t *testing.T) {
	cases := []struct {
		word string
		want bool
	}{
		{"학교", false},
		{"사이트", false},
		{"동", true},
		{"물", true},
		{"플랫폼", true},
		{"NASA", false},
		{"", false},
		{"ㄱ", false},
		{"동 ", true},
	}
	for _, c := range cases {
		if got := HasBatchim(c.word); got != c.want {
			t.Fatalf("HasBatchim(%q) = %v, want %v", c.word, got, c.want)
		}
	}
	if !IsRieulFinal("서울") || IsRieulFinal("이동") || IsRieulFinal("") {
		t.Fatalf("IsRieulFinal mismatch")
	}
}

func TestChoose(t *testing.T) {
	cases := []struct {
		word, p, want string
	}{
		{"학교", "는", "는"},
		{"학교", "은", "는"},
		{"학습 플랫폼", "는", "은"},
		{"포털사이트", "는", "는"},
		{"이동", "로", "으로"},
		{"서울", "으로", "로"},
		{"메신저", "으로", "로"},
		{"생성형 인공지능", "와", "과"},
		{"사이트", "과", "와"},
		{"미국항공우주국", "가", "이"},
		{"유엔", "를", "을"},
		{"버스", "을", "를"},
		{"학교", "에서", "에서"},
		{"학교", "도", "도"},
	}
	for _, c := range cases {
		if got := Choose(c.word, c.p); got != c.want {
			t.Fatalf("Choose(%q, %q) = %q, want %q", c.word, c.p, got, c.want)
		}
	}
}

func TestFollowing(t *testing.T) {
	cases := []struct {
		rest, inflect, del string
	}{
		{"으로 이동", "으로", "으로"},
		{"로 이동", "로", "로"},
		{"에서 공부", "", "에서"},
		{"에 참여", "", "에"},
		{"에게서 배움", "", "에게서"},
		{"을 준비", "을", "을"},
		{" 준비", "", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		if got := Following(c.rest); got != c.inflect {
			t.Fatalf("Following(%q) = %q, want %q", c.rest, got, c.inflect)
		}
		if got := FollowingDeletable(c.rest); got != c.del {
			t.Fatalf("FollowingDeletable(%q) = %q, want %q", c.rest, got, c.del)
		}
	}
}

func TestSubstitute(t *testing.T) {
	out, n := Substitute("포털사이트", "는 검색")
	if out != "포털사이트는" || n != len("는") {
		t.Fatalf("Substitute = %q, %d", out, n)
	}
	out, n = Substitute("학습 플랫폼", "를 활용")
	if out != "학습 플랫폼을" || n != len("를") {
		t.Fatalf("Substitute = %q, %d", out, n)
	}
	out, n = Substitute("메신저", " 사용")
	if out != "메신저" || n != 0 {
		t.Fatalf("Substitute without particle = %q, %d", out, n)
	}
}
