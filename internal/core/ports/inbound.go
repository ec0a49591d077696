package ports

import (
	"context"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

// ChatService is the inbound contract the UI controller drives.
type ChatService interface {
	Snapshot(ctx context.Context, sessionID string) (domain.WorkspaceView, error)
	NewChat(ctx context.Context, sessionID string) (*domain.Chat, error)
	SelectChat(ctx context.Context, sessionID, chatID string) error
	UploadDocuments(ctx context.Context, sessionID, chatID string, files []domain.UploadFile) (*domain.Chat, error)
	Ask(ctx context.Context, sessionID, chatID, question string, temperature float64) (*domain.Chat, error)
	RunCommand(ctx context.Context, sessionID, chatID string, mode domain.InstructionMode, temperature float64) (*domain.Chat, error)
	Tips(ctx context.Context, sessionID, chatID string) (filename string, content string, err error)
	ForgetSession(ctx context.Context, sessionID string) error
}
