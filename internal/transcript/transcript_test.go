package transcript

import (
	"reflect"
	"testing"

	"github.com/zhubert/confide/internal/api"
)

func collectSegments(markup string) []Node {
	var out []Node
	for n := range Segments(markup) {
		out = append(out, n)
	}
	return out
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []Node
	}{
		{"empty", "", nil},
		{"text only", "hello", []Node{{NodeText, "hello"}}},
		{"tag only", "<br>", []Node{{NodeTag, "<br>"}}},
		{"mixed", "a<b>c", []Node{{NodeText, "a"}, {NodeTag, "<b>"}, {NodeText, "c"}}},
		{"adjacent tags", "<strong></strong>", []Node{{NodeTag, "<strong>"}, {NodeTag, "</strong>"}}},
		{"unclosed lt is text", "1 < 2", []Node{{NodeText, "1 < 2"}}},
		{"unclosed after tag", "<br>x < y", []Node{{NodeTag, "<br>"}, {NodeText, "x < y"}}},
		{"gt without lt is text", "a > b", []Node{{NodeText, "a > b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectSegments(tt.markup)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segments(%q) = %v, want %v", tt.markup, got, tt.want)
			}
		})
	}
}

func TestSegments_EarlyStop(t *testing.T) {
	count := 0
	for range Segments("a<b>c<d>e") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("iteration should stop when asked, got %d", count)
	}
}

func TestBubble_Mutations(t *testing.T) {
	b := &Bubble{Role: RoleAssistant}

	b.AppendText("h") // starts a node on an empty bubble
	b.AppendText("i")
	b.InsertTag("<br>")
	b.AppendText("x")
	b.StartText("y")

	want := []Node{
		{NodeText, "hi"},
		{NodeTag, "<br>"},
		{NodeText, "x"},
		{NodeText, "y"},
	}
	if !reflect.DeepEqual(b.Nodes, want) {
		t.Errorf("Nodes = %v, want %v", b.Nodes, want)
	}
	if b.Markup() != "hi<br>xy" {
		t.Errorf("Markup() = %q", b.Markup())
	}
}

func TestTranscript_AppendRemove(t *testing.T) {
	tr := New()
	a := tr.Append(NewBubble(RoleUser, "a"))
	loading := tr.Append(NewBubble(RoleLoading, LoadingText))

	if tr.Len() != 2 || !tr.Contains(loading) {
		t.Fatal("Append should add bubbles")
	}
	if !tr.Remove(loading) {
		t.Error("Remove should report success")
	}
	if tr.Remove(loading) {
		t.Error("second Remove should report failure")
	}
	if tr.Last(RoleUser) != a || tr.Last(RoleLoading) != nil {
		t.Error("Last returned the wrong bubble")
	}
}

func TestFormatAssistant(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"**hi** there", "<strong>hi</strong> there"},
		{"**a** and **b**", "<strong>a</strong> and <strong>b</strong>"},
		{"line1\nline2", "line1<br>line2"},
		{"<em>kept</em>", "<em>kept</em>"},
		{"**unclosed", "**unclosed"},
		{"**across\nlines**", "**across<br>lines**"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatAssistant(tt.in); got != tt.want {
				t.Errorf("FormatAssistant(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatUser_Escapes(t *testing.T) {
	got := FormatUser("<script>**x**</script>\nok")
	want := "&lt;script&gt;<strong>x</strong>&lt;/script&gt;<br>ok"
	if got != want {
		t.Errorf("FormatUser() = %q, want %q", got, want)
	}
}

func TestRenderHistory(t *testing.T) {
	tr := New()
	tr.Append(NewBubble(RoleError, "stale"))

	tr.RenderHistory([]api.Message{
		{Role: api.RoleUser, Content: "hello"},
		{Role: "system", Content: "ignored"},
		{Role: api.RoleAssistant, Content: "**hi**"},
	})

	bubbles := tr.Bubbles()
	if len(bubbles) != 2 {
		t.Fatalf("expected 2 bubbles, got %d", len(bubbles))
	}
	if bubbles[0].Role != RoleUser || bubbles[0].Markup() != "hello" {
		t.Errorf("first bubble = %+v", bubbles[0])
	}
	if bubbles[1].Role != RoleAssistant || bubbles[1].Markup() != "<strong>hi</strong>" {
		t.Errorf("second bubble = %+v", bubbles[1])
	}
}

func TestRenderHistory_EmptyShowsWelcome(t *testing.T) {
	tr := New()
	tr.RenderHistory(nil)

	if tr.Len() != 1 {
		t.Fatalf("expected welcome bubble, got %d bubbles", tr.Len())
	}
	if got := tr.Bubbles()[0].PlainText(); got != WelcomeText {
		t.Errorf("welcome text = %q", got)
	}
}

func TestRenderNotice(t *testing.T) {
	tr := New()
	tr.Welcome()
	tr.RenderNotice(NotFoundText)

	if tr.Len() != 1 || tr.Bubbles()[0].Role != RoleNotice {
		t.Errorf("RenderNotice should leave a single notice bubble")
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{"<strong>hi</strong> there", "hi there"},
		{"a<br>b", "a\nb"},
		{"a<br/>b", "a\nb"},
		{"&lt;script&gt;", "<script>"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			if got := PlainText(tt.markup); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.markup, got, tt.want)
			}
		})
	}
}

func TestRole_String(t *testing.T) {
	if RoleLoading.String() != "loading" || Role(42).String() != "unknown" {
		t.Error("unexpected Role strings")
	}
}
