package insight

import "testing"

func TestExtractJSONFromMarkdown(t *testing.T) {
	plain := `{"summary":"wants a private guide","intent":"special_request"}`

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", plain, plain},
		{"json fence", "```json\n" + plain + "\n```", plain},
		{"bare fence", "```\n" + plain + "\n```", plain},
		{"surrounding whitespace", "  \n" + plain + "\n  ", plain},
		{"fenced with whitespace", "\n```json\n" + plain + "\n```\n", plain},
		{"not fenced at all", "the model refused", "the model refused"},
	}
	for _, c := range cases {
		if got := ExtractJSONFromMarkdown(c.in); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestExtractJSONFromMarkdownMultiline(t *testing.T) {
	body := "{\n  \"summary\": \"ready to pay\",\n  \"intent\": \"ready_to_book\"\n}"
	got := ExtractJSONFromMarkdown("```json\n" + body + "\n```")
	if got != body {
		t.Errorf("multiline fence: got %q", got)
	}
}
