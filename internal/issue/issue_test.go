// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestValues_CoversEveryId(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(OutputWriteFailedId) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), OutputWriteFailedId)
	}
	for i, v := range values {
		if want := Id(i + 1); v.Id() != want {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), want)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", v.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	got := Get(CircularIncludeId)
	if got == nil {
		t.Fatal("Get(CircularIncludeId) returned nil")
	}
	if !strings.Contains(string(got.MarkdownMsg()), "Circular include") {
		t.Errorf("MarkdownMsg() = %q", got.MarkdownMsg())
	}
	if Get(Id(0)) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	i := &Issue{id: FileNotFoundId, docLinks: []HttpLink{"https://example.com/a"}}
	links := i.DocLinks()
	links[0] = "changed"
	if i.DocLinks()[0] != "https://example.com/a" {
		t.Error("DocLinks() should return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotMd, gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotMd, gotStyle = in, stylePath
		return "rendered", nil
	}

	i := &Issue{
		id:       SelectorMissingId,
		mdMsg:    "# Title",
		docLinks: []HttpLink{"https://example.com/docs"},
		extLinks: []HttpLink{"https://example.com/ext"},
	}
	out, err := i.Render("notty")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if out != "rendered" || gotStyle != "notty" {
		t.Errorf("Render() = %q with style %q", out, gotStyle)
	}
	want := "# Title\n\n## See also\n- <https://example.com/docs>\n- <https://example.com/ext>\n"
	if gotMd != want {
		t.Errorf("markdown = %q, want %q", gotMd, want)
	}
}

func TestIssue_RenderError(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	wantErr := errors.New("bad style")
	render = func(string, string) (string, error) { return "", wantErr }

	if _, err := Get(ParseFailureId).Render("missing.json"); !errors.Is(err, wantErr) {
		t.Errorf("Render() error = %v, want %v", err, wantErr)
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	t.Parallel()

	out, err := Get(IncludeOutsideRootId).Render("notty")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(out, "root directory") {
		t.Errorf("rendered output missing text:\n%s", out)
	}
}
