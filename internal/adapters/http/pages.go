package httpadapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kirillkom/legal-doc-simplifier/internal/config"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/web"
)

const maxUploadMemory = 32 << 20

func (rt *Router) home(w http.ResponseWriter, r *http.Request) {
	view, err := rt.chats.Snapshot(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		rt.renderFailure(w, r, "", "", err)
		return
	}
	rt.renderWorkspace(w, r, view, view.CurrentChat, "", http.StatusOK, "")
}

func (rt *Router) showChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	view, err := rt.chats.Snapshot(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		rt.renderFailure(w, r, "", "", err)
		return
	}
	chat := findChat(view, chatID)
	if chat == nil {
		rt.renderFailure(w, r, "", "", domain.WrapError(domain.ErrChatNotFound, "show chat", fmt.Errorf("chat_id=%s", chatID)))
		return
	}
	rt.renderWorkspace(w, r, view, chat, r.URL.Query().Get("tab"), http.StatusOK, "")
}

func (rt *Router) newChat(w http.ResponseWriter, r *http.Request) {
	chat, err := rt.chats.NewChat(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		rt.renderFailure(w, r, "", "", err)
		return
	}
	rt.redirectToChat(w, r, chat.ID, "")
}

func (rt *Router) selectChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if err := rt.chats.SelectChat(r.Context(), sessionIDFromContext(r.Context()), chatID); err != nil {
		rt.renderFailure(w, r, "", "", err)
		return
	}
	rt.redirectToChat(w, r, chatID, "")
}

// forgetSession clears the workspace; the cookie stays and keys a fresh one.
func (rt *Router) forgetSession(w http.ResponseWriter, r *http.Request) {
	if err := rt.chats.ForgetSession(r.Context(), sessionIDFromContext(r.Context())); err != nil {
		rt.renderFailure(w, r, "", "", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) uploadToNewChat(w http.ResponseWriter, r *http.Request) {
	rt.upload(w, r, "")
}

func (rt *Router) uploadToChat(w http.ResponseWriter, r *http.Request) {
	rt.upload(w, r, chi.URLParam(r, "chatID"))
}

func (rt *Router) upload(w http.ResponseWriter, r *http.Request, chatID string) {
	files, err := readUploads(r)
	if err != nil {
		rt.renderFailure(w, r, chatID, "", err)
		return
	}

	chat, err := rt.chats.UploadDocuments(r.Context(), sessionIDFromContext(r.Context()), chatID, files)
	if err != nil {
		rt.renderFailure(w, r, chatID, "", err)
		return
	}
	slog.Info("documents_uploaded",
		"request_id", requestIDFromContext(r.Context()),
		"chat_id", chat.ID,
		"files", len(files),
	)
	rt.redirectToChat(w, r, chat.ID, "")
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	tab := string(domain.ModeAnswerQuestion)

	chat, err := rt.chats.Ask(
		r.Context(),
		sessionIDFromContext(r.Context()),
		chatID,
		r.PostFormValue("question"),
		rt.temperature(r),
	)
	if err != nil {
		rt.renderFailure(w, r, chatID, tab, err)
		return
	}
	rt.redirectToChat(w, r, chat.ID, tab)
}

func (rt *Router) runCommand(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	mode := domain.InstructionMode(chi.URLParam(r, "mode"))

	chat, err := rt.chats.RunCommand(r.Context(), sessionIDFromContext(r.Context()), chatID, mode, rt.temperature(r))
	if err != nil {
		rt.renderFailure(w, r, chatID, string(mode), err)
		return
	}
	rt.redirectToChat(w, r, chat.ID, string(mode))
}

func (rt *Router) downloadTips(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	filename, content, err := rt.chats.Tips(r.Context(), sessionIDFromContext(r.Context()), chatID)
	if err != nil {
		rt.renderFailure(w, r, chatID, string(domain.ModeActionItems), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, content)
}

func (rt *Router) temperature(r *http.Request) float64 {
	raw := r.PostFormValue("temperature")
	if raw == "" {
		return rt.defaultTemperature
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return rt.defaultTemperature
	}
	return domain.ClampTemperature(v)
}

func (rt *Router) redirectToChat(w http.ResponseWriter, r *http.Request, chatID, tab string) {
	target := "/chats/" + url.PathEscape(chatID)
	if tab != "" && rt.layout == config.LayoutTabs {
		target += "?tab=" + url.QueryEscape(tab)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// renderFailure re-renders the workspace with a warning banner and the status the error maps to.
func (rt *Router) renderFailure(w http.ResponseWriter, r *http.Request, chatID, tab string, err error) {
	status := mapErrorToHTTPStatus(err)
	logAttrs := []any{
		"request_id", requestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		slog.Error("chat_request_failed", logAttrs...)
	} else {
		slog.Warn("chat_request_rejected", logAttrs...)
	}

	view, snapErr := rt.chats.Snapshot(r.Context(), sessionIDFromContext(r.Context()))
	if snapErr != nil {
		http.Error(w, warningText(err), status)
		return
	}
	chat := findChat(view, chatID)
	if chat == nil {
		chat = view.CurrentChat
	}
	rt.renderWorkspace(w, r, view, chat, tab, status, warningText(err))
}

func (rt *Router) renderWorkspace(w http.ResponseWriter, r *http.Request, view domain.WorkspaceView, chat *domain.Chat, tab string, status int, warning string) {
	page := web.Page{
		Layout:       rt.layout,
		Chats:        view.Chats,
		Current:      chat,
		CanStartChat: view.CurrentChat == nil || view.CurrentChat.HasMessages(),
		Warning:      warning,
		Temperature:  rt.defaultTemperature,
		Accept:       rt.accept,
	}

	name := web.PageLanding
	if chat != nil {
		page.Title = chat.Title
		page.ActiveChatID = chat.ID
		page.CanGenerate = len(chat.DocumentTexts()) > 0
		name = web.PageChat
		if rt.layout == config.LayoutTabs {
			name = web.PageTabs
			page.Tabs, page.ActiveTab = web.BuildTabs(chat, tab)
		}
	}

	var buf bytes.Buffer
	if err := rt.pages.Render(&buf, name, page); err != nil {
		slog.Error("page_render_failed",
			"request_id", requestIDFromContext(r.Context()),
			"page", name,
			"error", err.Error(),
		)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func readUploads(r *http.Request) ([]domain.UploadFile, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload documents", errors.New("choose at least one file to upload"))
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	files := make([]domain.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %q: %w", header.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", header.Filename, err)
		}
		files = append(files, domain.UploadFile{Name: header.Filename, Data: data})
	}
	return files, nil
}

func findChat(view domain.WorkspaceView, chatID string) *domain.Chat {
	if chatID == "" {
		return nil
	}
	for _, chat := range view.Chats {
		if chat.ID == chatID {
			return chat
		}
	}
	return nil
}
