package domain

import (
	"testing"
	"time"
)

func TestChatPutDocumentReplacesInPlace(t *testing.T) {
	chat := &Chat{}
	chat.PutDocument(UploadedDocument{Name: "a.txt", Text: "one"})
	chat.PutDocument(UploadedDocument{Name: "b.txt", Text: "two"})
	chat.PutDocument(UploadedDocument{Name: "a.txt", Text: "three"})

	if len(chat.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(chat.Documents))
	}
	if chat.Documents[0].Text != "three" || chat.Documents[1].Text != "two" {
		t.Fatalf("unexpected order or content: %+v", chat.Documents)
	}
}

func TestChatDocumentTextsSkipFailed(t *testing.T) {
	chat := &Chat{Documents: []UploadedDocument{
		{Name: "a.txt", Text: "A"},
		{Name: "b.pdf", ExtractionError: "encrypted"},
		{Name: "c.csv"},
	}}
	texts := chat.DocumentTexts()
	if len(texts) != 2 || texts[0] != "A" || texts[1] != "" {
		t.Fatalf("unexpected texts: %q", texts)
	}
}

func TestChatTipsFilename(t *testing.T) {
	chat := &Chat{Documents: []UploadedDocument{{Name: "Rental Agreement.docx"}, {Name: "other.txt"}}}
	if got := chat.TipsFilename(); got != "Rental Agreement_tips.txt" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := (&Chat{}).TipsFilename(); got != "document_tips.txt" {
		t.Fatalf("unexpected fallback filename %q", got)
	}
}

func TestChatLatestByMode(t *testing.T) {
	chat := &Chat{}
	chat.AppendGeneration(ModeSummarize, Generation{Text: "first"})
	chat.AppendGeneration(ModeActionItems, Generation{Text: "tips"})
	chat.AppendGeneration(ModeSummarize, Generation{Failure: &GenerationFailure{Kind: FailureQuota, Description: "quota"}})

	msg, ok := chat.LatestByMode(ModeSummarize)
	if !ok || !msg.Failed || msg.Content != "(Error: quota)" {
		t.Fatalf("unexpected latest summary: %+v", msg)
	}
	if _, ok := chat.LatestByMode(ModeSuggestQuestions); ok {
		t.Fatalf("expected no suggest-questions message")
	}
}

func TestWorkspaceViewIsDetached(t *testing.T) {
	ws := NewWorkspace("s", time.Now())
	ws.AddChat(&Chat{ID: "c1", Title: "x"})
	ws.AddChat(&Chat{ID: "c2", Title: "y"})

	view := ws.View()
	if view.CurrentChat == nil || view.CurrentChat.ID != "c2" || len(view.Chats) != 2 {
		t.Fatalf("unexpected view: %+v", view)
	}
	view.CurrentChat.Title = "changed"
	if chat, _ := ws.Chat("c2"); chat.Title != "y" {
		t.Fatalf("view mutation leaked into workspace")
	}
}
