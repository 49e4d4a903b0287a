package parser

import (
	"strings"
	"testing"
)

func TestTextParser_Paragraphs(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		input     string
		wantTitle string
		want      []string
	}{
		{
			name:      "lines joined within a paragraph",
			filename:  "tavern.txt",
			input:     "The Gilded Eel stands by the docks.\nIts cellar floods at high tide.\n\nThe owner is Marta.\n\nShe owes the guild money.",
			wantTitle: "tavern",
			want: []string{
				"The Gilded Eel stands by the docks.\nIts cellar floods at high tide.",
				"The owner is Marta.",
				"She owes the guild money.",
			},
		},
		{
			name:      "empty input",
			filename:  "empty.txt",
			input:     "",
			wantTitle: "empty",
		},
		{
			name:      "single line",
			filename:  "rumor.txt",
			input:     "The bridge is haunted.",
			wantTitle: "rumor",
			want:      []string{"The bridge is haunted."},
		},
		{
			name:      "runs of blank lines",
			filename:  "gaps.txt",
			input:     "North gate.\n\n\n\nSouth gate.",
			wantTitle: "gaps",
			want:      []string{"North gate.", "South gate."},
		},
		{
			name:      "whitespace-only separator",
			filename:  "ws.txt",
			input:     "North gate.\n \t \nSouth gate.",
			wantTitle: "ws",
			want:      []string{"North gate.", "South gate."},
		},
		{
			name:      "CRLF and upper-case extension",
			filename:  "Chronicle.TXT",
			input:     "Year one.\r\nYear two.\r\n\r\nYear three.",
			wantTitle: "Chronicle",
			want:      []string{"Year one.\nYear two.", "Year three."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := (&TextParser{}).Parse(strings.NewReader(tt.input), tt.filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tree.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", tree.Title, tt.wantTitle)
			}
			if len(tree.Children) != len(tt.want) {
				t.Fatalf("got %d paragraphs, want %d", len(tree.Children), len(tt.want))
			}
			for i, w := range tt.want {
				if got := tree.Children[i].Text; got != w {
					t.Errorf("paragraph %d = %q, want %q", i, got, w)
				}
			}
		})
	}
}
