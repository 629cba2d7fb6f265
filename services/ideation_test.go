package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trendcast/types"
)

type fakeChat struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeChat) Generate(ctx context.Context, preamble, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestGenerateIdeaParsesModelOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{
			name:  "bare json",
			reply: `{"title":"AI in 2025","description":"A look ahead.","tags":["ai","tech"],"script":"Hello world."}`,
		},
		{
			name: "fenced json",
			reply: "Here you go:\n```json\n" +
				`{"title":"AI in 2025","description":"A look ahead.","tags":["ai","tech"],"script":"Hello world."}` +
				"\n```\nLet me know if you need more.",
		},
		{
			name: "surrounding prose",
			reply: `Sure! {"title":"AI in 2025","description":"A look ahead.","tags":["ai","tech"],"script":"Hello world."} Enjoy.`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chat := &fakeChat{reply: tc.reply}
			idea, err := NewIdeator(chat).GenerateIdea(context.Background(), types.Trend{Title: "AI", Category: "Technology"})
			if err != nil {
				t.Fatalf("GenerateIdea: %v", err)
			}
			if idea.Title != "AI in 2025" {
				t.Errorf("title = %q, want %q", idea.Title, "AI in 2025")
			}
			if len(idea.Tags) != 2 {
				t.Errorf("tags = %v, want 2 entries", idea.Tags)
			}
			if idea.Script == "" {
				t.Errorf("script is empty")
			}
		})
	}
}

func TestGenerateIdeaPromptMentionsTrend(t *testing.T) {
	chat := &fakeChat{reply: `{"title":"t","description":"d","tags":[],"script":"s"}`}
	if _, err := NewIdeator(chat).GenerateIdea(context.Background(), types.Trend{Title: "Sustainable Living", Category: "Lifestyle"}); err != nil {
		t.Fatalf("GenerateIdea: %v", err)
	}
	if len(chat.prompts) != 1 {
		t.Fatalf("chat called %d times, want 1", len(chat.prompts))
	}
	prompt := chat.prompts[0]
	for _, want := range []string{"Sustainable Living", "Lifestyle", "70 chars", "30-second"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerateIdeaErrors(t *testing.T) {
	tests := []struct {
		name  string
		chat  *fakeChat
	}{
		{name: "chat failure", chat: &fakeChat{err: errors.New("boom")}},
		{name: "not json", chat: &fakeChat{reply: "I cannot do that."}},
		{name: "missing title", chat: &fakeChat{reply: `{"description":"d"}`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewIdeator(tc.chat).GenerateIdea(context.Background(), types.Trend{Title: "AI"}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"array before object wins", `[{"a":1},{"b":2}]`, `[{"a":1},{"b":2}]`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", `Sure: {"a":1} done`, `{"a":1}`},
		{"no json at all", "nothing here", "nothing here"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
