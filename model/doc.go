// Package model provides the intermediate representation for tables and
// text extracted from documents.
//
// # Tables
//
// A [Table] is a fixed-size grid of rows and columns covered by
// non-overlapping [Cell] values. A cell may span several rows and columns
// (a merge). Cells are added one at a time:
//
//	t, _ := model.NewTable(2, 2)
//	merged := model.NewCell(model.NewRect(0, 0, 2, 1))
//	if err := t.AddCell(merged); err != nil {
//	    // *model.BoundsError or *model.OccupiedError
//	}
//
// The table keeps an occupancy board recording which cell covers each
// coordinate. Once every coordinate is covered ([Table.ReadyToMove]),
// [Cell.Move] and [Table.Move] return the neighbouring cell in a
// [Direction], or nil at the table boundary:
//
//	below, err := merged.Move(model.DirDown)
//
// Navigation steps from the moving cell's left edge for DirUp/DirDown and
// from its top edge for DirLeft/DirRight.
//
// # Paragraphs
//
// Cells hold ordered [TextParagraph] values made of styled [TextSegment]s.
// A paragraph belongs to at most one cell.
//
// # Documents
//
// A [Document] is an ordered list of [Block] values, either free-standing
// paragraphs or tables, as produced by the readers in htmldoc, xlsx and docx.
//
// # Records
//
// Record methods produce plain structs ready for JSON or MessagePack
// encoding. Cell records have the shape
// {"type": "cell", "rect": {...}, "paragraphs": [...]} and table records
// {"type": "table", "cells": [...]} with cells in (top, left) order.
// [TableFromRecord] rebuilds a table from its record.
//
// # Geometry
//
// [Rect] is an integer rectangle with inclusive Right and Bottom edges;
// [Point] is a grid coordinate.
package model
