// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cmap maps single-channel power textures to colors.
//
// A [Context] generates lookup tables (LUTs) from named palettes, uploads
// them as 1-D RGBA textures and binds them to subsequent quads of a
// render.Scene through [Context.Enable] and [Context.Disable].
//
// The intensity fed to the LUT is scale*(raw+offset), clamped to [0,1].
package cmap
