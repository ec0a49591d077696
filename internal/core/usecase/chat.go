package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/ports"
)

const (
	extractionStatusOK          = "ok"
	extractionStatusFailed      = "failed"
	extractionStatusUnsupported = "unsupported"
)

// ChatUseCase drives one session's chats: uploads, questions and fixed commands.
// Every operation holds the workspace lock for its whole duration, model call included.
type ChatUseCase struct {
	store     ports.WorkspaceStore
	extractor ports.TextExtractor
	prompts   *PromptBuilder
	gateway   *ModelGateway
	recorder  ports.UsageRecorder
	newID     func() string
	now       func() time.Time
}

func NewChatUseCase(
	store ports.WorkspaceStore,
	extractor ports.TextExtractor,
	prompts *PromptBuilder,
	gateway *ModelGateway,
	recorder ports.UsageRecorder,
) *ChatUseCase {
	return &ChatUseCase{
		store:     store,
		extractor: extractor,
		prompts:   prompts,
		gateway:   gateway,
		recorder:  recorder,
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ChatUseCase) Snapshot(ctx context.Context, sessionID string) (domain.WorkspaceView, error) {
	ws, err := uc.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return domain.WorkspaceView{}, fmt.Errorf("load workspace: %w", err)
	}
	ws.Lock()
	defer ws.Unlock()
	return ws.View(), nil
}

func (uc *ChatUseCase) NewChat(ctx context.Context, sessionID string) (*domain.Chat, error) {
	ws, err := uc.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	ws.Lock()
	defer ws.Unlock()

	if current, ok := ws.CurrentChat(); ok && !current.HasMessages() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "new chat", errors.New("the current chat is still empty"))
	}

	chat := uc.newChat(domain.DefaultChatTitle)
	ws.AddChat(chat)
	return chat.Clone(), nil
}

func (uc *ChatUseCase) SelectChat(ctx context.Context, sessionID, chatID string) error {
	ws, err := uc.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}
	ws.Lock()
	defer ws.Unlock()

	if _, err := findChat(ws, chatID, "select chat"); err != nil {
		return err
	}
	ws.CurrentChatID = chatID
	return nil
}

// UploadDocuments extracts every file independently. With an empty chatID a new chat is
// started and titled after the first file.
func (uc *ChatUseCase) UploadDocuments(ctx context.Context, sessionID, chatID string, files []domain.UploadFile) (*domain.Chat, error) {
	files = nonEmptyUploads(files)
	if len(files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload documents", errors.New("no files selected"))
	}

	ws, err := uc.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	ws.Lock()
	defer ws.Unlock()

	var chat *domain.Chat
	if strings.TrimSpace(chatID) == "" {
		chat = uc.newChat(files[0].Name)
		ws.AddChat(chat)
	} else {
		chat, err = findChat(ws, chatID, "upload documents")
		if err != nil {
			return nil, err
		}
		if chat.Title == domain.DefaultChatTitle && !chat.HasDocuments() {
			chat.Title = files[0].Name
		}
	}

	names := make([]string, 0, len(files))
	var failures []domain.Message
	for _, file := range files {
		doc := uc.extract(ctx, file)
		chat.PutDocument(doc)
		names = append(names, doc.Name)
		if doc.Failed() {
			failures = append(failures, domain.Message{
				Role:      domain.RoleSystem,
				Content:   fmt.Sprintf("Could not extract text from %s: %s", doc.Name, doc.ExtractionError),
				Failed:    true,
				CreatedAt: uc.now(),
			})
		}
	}

	chat.AppendMessage(domain.Message{
		Role:      domain.RoleSystem,
		Content:   "Documents uploaded: " + strings.Join(names, ", "),
		CreatedAt: uc.now(),
	})
	for _, msg := range failures {
		chat.AppendMessage(msg)
	}
	return chat.Clone(), nil
}

func (uc *ChatUseCase) extract(ctx context.Context, file domain.UploadFile) domain.UploadedDocument {
	format := domain.FormatFromFilename(file.Name)
	doc := domain.UploadedDocument{
		Name:       file.Name,
		Format:     format,
		UploadedAt: uc.now(),
	}

	text, err := uc.extractor.Extract(ctx, file.Name, file.Data)
	switch {
	case err != nil:
		doc.ExtractionError = extractionReason(err)
		uc.recordExtraction(format, extractionStatusFailed)
	case format == domain.FormatUnsupported:
		uc.recordExtraction(format, extractionStatusUnsupported)
	default:
		doc.Text = text
		uc.recordExtraction(format, extractionStatusOK)
	}
	return doc
}

func (uc *ChatUseCase) Ask(ctx context.Context, sessionID, chatID, question string, temperature float64) (*domain.Chat, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("question is empty"))
	}

	ws, err := uc.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	ws.Lock()
	defer ws.Unlock()

	chat, err := findChat(ws, chatID, "ask")
	if err != nil {
		return nil, err
	}
	texts := chat.DocumentTexts()
	if len(texts) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("upload a document first"))
	}

	prompt, err := uc.prompts.Build(domain.ModeAnswerQuestion, texts, question)
	if err != nil {
		return nil, err
	}

	chat.AppendMessage(domain.Message{
		Role:      domain.RoleUser,
		Content:   question,
		Mode:      domain.ModeAnswerQuestion,
		CreatedAt: uc.now(),
	})
	gen := uc.gateway.GenerateForMode(ctx, domain.ModeAnswerQuestion, prompt, temperature)
	chat.AppendGeneration(domain.ModeAnswerQuestion, gen)
	return chat.Clone(), nil
}

// RunCommand runs one of the fixed instructions against the chat's documents.
func (uc *ChatUseCase) RunCommand(ctx context.Context, sessionID, chatID string, mode domain.InstructionMode, temperature float64) (*domain.Chat, error) {
	if !mode.IsCommand() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "run command", fmt.Errorf("unknown command %q", mode))
	}

	ws, err := uc.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	ws.Lock()
	defer ws.Unlock()

	chat, err := findChat(ws, chatID, "run command")
	if err != nil {
		return nil, err
	}
	texts := chat.DocumentTexts()
	if len(texts) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "run command", errors.New("upload a document first"))
	}

	prompt, err := uc.prompts.Build(mode, texts, "")
	if err != nil {
		return nil, err
	}

	gen := uc.gateway.GenerateForMode(ctx, mode, prompt, temperature)
	chat.AppendGeneration(mode, gen)
	if mode == domain.ModeActionItems && gen.OK() {
		chat.LastTips = gen.Text
	}
	return chat.Clone(), nil
}

// Tips returns the download name and body of the last successful action-items reply.
func (uc *ChatUseCase) Tips(ctx context.Context, sessionID, chatID string) (string, string, error) {
	ws, err := uc.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("load workspace: %w", err)
	}
	ws.Lock()
	defer ws.Unlock()

	chat, err := findChat(ws, chatID, "download tips")
	if err != nil {
		return "", "", err
	}
	if chat.LastTips == "" {
		return "", "", domain.WrapError(domain.ErrInvalidInput, "download tips", errors.New("no action items generated yet"))
	}
	return chat.TipsFilename(), chat.LastTips, nil
}

// ForgetSession drops every chat and document held for the session.
func (uc *ChatUseCase) ForgetSession(ctx context.Context, sessionID string) error {
	err := uc.store.Delete(ctx, sessionID)
	if err != nil && !domain.IsKind(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("forget session: %w", err)
	}
	return nil
}

func (uc *ChatUseCase) newChat(title string) *domain.Chat {
	return &domain.Chat{
		ID:        uc.newID(),
		Title:     title,
		CreatedAt: uc.now(),
	}
}

func (uc *ChatUseCase) recordExtraction(format domain.DocumentFormat, status string) {
	if uc.recorder != nil {
		uc.recorder.RecordExtraction(format, status)
	}
}

func findChat(ws *domain.Workspace, chatID, op string) (*domain.Chat, error) {
	chat, ok := ws.Chat(chatID)
	if !ok {
		return nil, domain.WrapError(domain.ErrChatNotFound, op, fmt.Errorf("chat_id=%s", chatID))
	}
	return chat, nil
}

func nonEmptyUploads(files []domain.UploadFile) []domain.UploadFile {
	out := make([]domain.UploadFile, 0, len(files))
	for _, file := range files {
		if strings.TrimSpace(file.Name) == "" {
			continue
		}
		out = append(out, file)
	}
	return out
}

func extractionReason(err error) string {
	var extractErr *domain.ExtractionError
	if errors.As(err, &extractErr) && extractErr.Err != nil {
		return extractErr.Err.Error()
	}
	return err.Error()
}
