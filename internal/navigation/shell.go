// Package navigation builds the app shell (header tabs and sidebar) for the
// signed-in teacher from a static route table.
package navigation

import (
	"strings"

	"github.com/wawa-academy/erp-server/internal/model"
)

// Tab is a header entry.
type Tab struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// Shell is everything the renderer needs to draw the chrome around a page.
type Shell struct {
	Teacher *model.SessionTeacher `json:"teacher"`
	IsAdmin bool                  `json:"is_admin"`
	Tabs    []Tab                 `json:"tabs"`
	Module  string                `json:"module"`
	Title   string                `json:"title"`
	Sidebar []Link                `json:"sidebar"`
	Global  []Link                `json:"global"`
	// Active is the path of the highlighted link. It differs from the
	// requested path when that path is unknown or not allowed.
	Active string `json:"active"`
}

// Build returns the shell for session with activePath selected. Without a
// session the shell is empty.
func Build(session *model.Session, activePath string) Shell {
	if session == nil {
		return Shell{Tabs: []Tab{}, Sidebar: []Link{}, Global: []Link{}}
	}

	teacher := session.Teacher
	shell := Shell{
		Teacher: &teacher,
		IsAdmin: session.IsAdmin,
		Global:  visible(globalLinks, session.IsAdmin),
	}

	mod := moduleFor(activePath)
	shell.Module = mod.ID
	shell.Title = mod.Title
	shell.Sidebar = visible(mod.links, session.IsAdmin)

	for _, m := range modules {
		shell.Tabs = append(shell.Tabs, Tab{
			ID:     m.ID,
			Label:  m.Label,
			Icon:   m.Icon,
			Path:   m.Path,
			Active: m.ID == mod.ID,
		})
	}

	if link, ok := match(append(append([]Link{}, shell.Sidebar...), shell.Global...), activePath); ok {
		shell.Active = link.Path
	} else if len(shell.Sidebar) > 0 {
		shell.Active = shell.Sidebar[0].Path
	}
	return shell
}

// Allowed reports whether session may open path. Unknown paths are allowed;
// the renderer shows its own not-found page for them.
func Allowed(session *model.Session, path string) bool {
	if session == nil {
		return false
	}
	if session.IsAdmin {
		return true
	}
	all := append([]Link{}, globalLinks...)
	for _, m := range modules {
		all = append(all, m.links...)
	}
	link, ok := match(all, path)
	return !ok || !link.adminOnly
}

// moduleFor picks the module owning the first path segment, the first module
// when there is none.
func moduleFor(path string) Module {
	seg := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	for _, m := range modules {
		if m.ID == seg {
			return m
		}
	}
	return modules[0]
}

// match returns the link with the longest path that equals path or is a
// parent of it.
func match(links []Link, path string) (Link, bool) {
	path = strings.TrimSuffix(path, "/")
	var best Link
	found := false
	for _, l := range links {
		if path != l.Path && !strings.HasPrefix(path, l.Path+"/") {
			continue
		}
		if !found || len(l.Path) > len(best.Path) {
			best = l
			found = true
		}
	}
	return best, found
}

func visible(links []Link, isAdmin bool) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if l.adminOnly && !isAdmin {
			continue
		}
		out = append(out, l)
	}
	return out
}
