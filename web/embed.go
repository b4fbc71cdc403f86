// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the navigation templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var files embed.FS

// Templates is the template tree rooted at templates/, so nav fragments
// live under nav/.
var Templates = mustSub(files, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
