package llm

import "testing"

func TestStripFences(t *testing.T) {
	doc := "\\documentclass{article}\n\\begin{document}\nhi\n\\end{document}"
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: doc, want: doc},
		{name: "latex fence", in: "```latex\n" + doc + "\n```", want: doc},
		{name: "bare fence", in: "```\n" + doc + "\n```\n", want: doc},
		{name: "outer whitespace", in: "\n\n  ```latex\n" + doc + "\n```  \n", want: doc},
		{name: "fence on same line", in: "```latex " + doc + "```", want: doc},
		{name: "only trailing", in: doc + "\n```", want: doc},
		{name: "inner backticks kept", in: "a ``` b", want: "a ``` b"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
