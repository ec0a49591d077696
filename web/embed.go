// Package web embeds the server-rendered pages and their stylesheet.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

//go:embed templates/*.html static/*
var assets embed.FS

const (
	PageLanding = "landing"
	PageChat    = "chat"
	PageTabs    = "tabs"
)

// Page is everything a template needs to draw one screen.
type Page struct {
	Title        string
	Layout       string
	Chats        []*domain.Chat
	Current      *domain.Chat
	ActiveChatID string
	CanStartChat bool
	CanGenerate  bool
	Tabs         []Tab
	ActiveTab    *Tab
	Warning      string
	Temperature  float64
	Accept       string
}

// Tab is one panel of the tabbed layout.
type Tab struct {
	Mode         domain.InstructionMode
	Title        string
	Active       bool
	Conversation bool
	Messages     []domain.Message
	Result       *domain.Message
}

var tabTitles = []struct {
	mode  domain.InstructionMode
	title string
}{
	{domain.ModeAnswerQuestion, "Ask"},
	{domain.ModeSummarize, "Summary"},
	{domain.ModeSuggestQuestions, "Questions to ask"},
	{domain.ModeActionItems, "Action items"},
}

// BuildTabs splits a chat into the tabbed layout's panels. The question panel
// also carries upload notices. An unknown active mode falls back to it.
func BuildTabs(chat *domain.Chat, active string) ([]Tab, *Tab) {
	if chat == nil {
		return nil, nil
	}
	if !domain.InstructionMode(active).Valid() {
		active = string(domain.ModeAnswerQuestion)
	}

	tabs := make([]Tab, 0, len(tabTitles))
	for _, t := range tabTitles {
		tab := Tab{Mode: t.mode, Title: t.title, Active: string(t.mode) == active}
		if t.mode == domain.ModeAnswerQuestion {
			tab.Conversation = true
			for _, msg := range chat.Messages {
				if msg.Mode == domain.ModeAnswerQuestion || msg.Role == domain.RoleSystem {
					tab.Messages = append(tab.Messages, msg)
				}
			}
		} else if msg, ok := chat.LatestByMode(t.mode); ok {
			tab.Result = &msg
		}
		tabs = append(tabs, tab)
	}

	for i := range tabs {
		if tabs[i].Active {
			return tabs, &tabs[i]
		}
	}
	return tabs, nil
}

type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"roleClass": func(msg domain.Message) string {
			if msg.Failed {
				return string(msg.Role) + " failed"
			}
			return string(msg.Role)
		},
	}

	pages := make(map[string]*template.Template, 3)
	for _, name := range []string{PageLanding, PageChat, PageTabs} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, "base", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// StaticHandler serves the embedded stylesheet under the path it is mounted on.
func StaticHandler(prefix string) http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return http.StripPrefix(prefix, http.FileServer(http.FS(sub)))
}
