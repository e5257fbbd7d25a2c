package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/dexmgr/internal/ui/output"
	"go.trai.ch/dexmgr/internal/ui/style"
)

// Report renders recorded dex usage for humans.
type Report struct {
	w       io.Writer
	heading lipgloss.Style
	muted   lipgloss.Style
}

// NewReport creates a report writing to w.
func NewReport(w io.Writer) *Report {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(output.ColorProfile())
	return &Report{
		w:       w,
		heading: renderer.NewStyle().Bold(true).Foreground(style.Iris),
		muted:   renderer.NewStyle().Foreground(style.Slate),
	}
}

// Package writes the usage of one package. A nil info is reported as having no usage.
func (r *Report) Package(name string, info *domain.PackageUseInfo) error {
	var b strings.Builder

	b.WriteString(r.heading.Render(style.Dot + " " + name))
	b.WriteByte('\n')

	if info == nil || info.IsEmpty() {
		b.WriteString("  " + r.muted.Render("no dex usage recorded"))
		b.WriteByte('\n')
		_, err := io.WriteString(r.w, b.String())
		return err
	}

	if len(info.CodePaths) > 0 {
		b.WriteString("  code paths\n")
		for _, path := range info.SortedCodePaths() {
			use := info.CodePaths[path]
			fmt.Fprintf(&b, "    %s %s\n", style.Circle, path)
			b.WriteString(r.field("users", joinUsers(use.UserIDs)))
			b.WriteString(r.field("isas", strings.Join(use.LoaderISAs, ", ")))
			b.WriteString(r.field("used by other apps", strconv.FormatBool(use.UsedByOtherApps)))
		}
	}

	if len(info.DexFiles) > 0 {
		b.WriteString("  secondary dex files\n")
		for _, path := range info.SortedDexPaths() {
			use := info.DexFiles[path]
			fmt.Fprintf(&b, "    %s %s\n", style.Circle, path)
			b.WriteString(r.field("owner", strconv.Itoa(int(use.OwnerUserID))))
			b.WriteString(r.field("isas", strings.Join(use.LoaderISAs, ", ")))
			b.WriteString(r.field("used by other apps", strconv.FormatBool(use.UsedByOtherApps)))
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Report) field(key, value string) string {
	return "      " + r.muted.Render(key+":") + " " + value + "\n"
}

func joinUsers(users []domain.UserID) string {
	parts := make([]string, len(users))
	for i, u := range users {
		parts[i] = strconv.Itoa(int(u))
	}
	return strings.Join(parts, ", ")
}
