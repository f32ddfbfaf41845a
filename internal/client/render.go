// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MKhiriev/go-key-vault/models"
)

const (
	timeLayout     = "2006-01-02 15:04"
	maskedPassword = "••••••••"
)

// view renders command output. Styles are bound to the output writer, so
// plain writers (pipes, files, tests) get unstyled text.
type view struct {
	out io.Writer

	title  lipgloss.Style
	label  lipgloss.Style
	help   lipgloss.Style
	errorS lipgloss.Style
	warn   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
}

func newView(out io.Writer) *view {
	r := lipgloss.NewRenderer(out)
	return &view{
		out:    out,
		title:  r.NewStyle().Bold(true),
		label:  r.NewStyle().Faint(true).Width(10),
		help:   r.NewStyle().Faint(true),
		errorS: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
	}
}

func (v *view) println(a ...any) {
	fmt.Fprintln(v.out, a...)
}

func (v *view) printf(format string, a ...any) {
	fmt.Fprintf(v.out, format, a...)
}

func (v *view) success(format string, a ...any) {
	v.println(v.title.Render(fmt.Sprintf(format, a...)))
}

func (v *view) warning(msg string) {
	v.println(v.warn.Render("warning: " + msg))
}

func (v *view) error(msg string) {
	v.println(v.errorS.Render("error: " + msg))
}

func (v *view) hint(msg string) {
	v.println(v.help.Render(msg))
}

// entries prints a table of entries. Passwords are never part of a listing.
func (v *view) entries(list []models.Entry) {
	if len(list) == 0 {
		v.hint("no entries")
		return
	}

	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{e.ID, e.Title, e.Account, formatMillis(e.UpdatedAt)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "ACCOUNT", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return v.header
			}
			return v.cell
		})

	v.println(t.Render())
}

// entry prints a single entry. The password is masked unless reveal is set.
func (v *view) entry(e models.Entry, reveal bool) {
	password := maskedPassword
	if reveal {
		password = e.Password
	}

	fields := []struct{ name, value string }{
		{"id", e.ID},
		{"title", e.Title},
		{"account", e.Account},
		{"password", password},
		{"note", e.Note},
		{"created", formatMillis(e.CreatedAt)},
		{"updated", formatMillis(e.UpdatedAt)},
	}

	var b strings.Builder
	for _, f := range fields {
		b.WriteString(v.label.Render(f.name))
		b.WriteString(f.value)
		b.WriteByte('\n')
	}
	v.printf("%s", b.String())
}

func (v *view) stats(s models.VaultStats) {
	v.printf("%s%d\n", v.label.Render("total"), s.Total)
	v.printf("%s%d\n", v.label.Render("weak"), s.Weak)
	if s.Weak > 0 {
		v.warning(strconv.Itoa(s.Weak) + " password(s) are shorter than 8 characters")
	}
}

func (v *view) status(s models.VaultStatus) {
	v.printf("%s%s\n", v.label.Render("version"), s.Version)
	v.printf("%s%s\n", v.label.Render("vault"), onOff(s.Initialized, "initialised", "not initialised"))
	v.printf("%s%s\n", v.label.Render("session"), onOff(s.Unlocked, "unlocked", "locked"))
	v.printf("%s%s\n", v.label.Render("autolock"), onOff(s.AutoLock, "on", "off"))
	if s.DegradedKey || s.DegradedDerivations > 0 {
		v.warning("keys were derived with the weak single-hash fallback")
	}
}

func (v *view) buildInfo(info models.AppBuildInfo) {
	v.printf("Build version: %s\n", info.BuildVersion())
	v.printf("Build date: %s\n", info.BuildDate())
	v.printf("Build commit: %s\n", info.BuildCommit())
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format(timeLayout)
}

func onOff(b bool, on, off string) string {
	if b {
		return on
	}
	return off
}
