// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package splitter implements stage 4's large-file chunking: a preprocessed
// file above a line-count threshold is split at top-level declaration
// boundaries so each chunk can be parsed on its own. cmd/svfront parses a
// file's chunks one after another and stitches the resulting FileContent
// trees back into one per-file tree.
package splitter

import "strings"

// topLevelKeywords are the declaration keywords that start a chunk boundary
// when they begin a line (after any leading spaces or tabs) -- the same
// coarse heuristic, deliberately not a full lexer pass since a chunk
// boundary only needs to be conservative, never exact:
// svparser re-lexes every chunk's content properly.
var topLevelKeywords = []string{"module", "interface", "program", "package", "class", "primitive", "checker"}

// Chunk is one contiguous line range of a file's expanded text, to be parsed
// independently and whose resulting FileContent subtree is stitched into the
// whole file's parser tree at the chunk's recorded line offset.
type Chunk struct {
	Text       string
	StartLine  uint32 // 1-indexed line of Text's first line within the original expanded text
	EndLine    uint32
}

// AnalyzeFile splits content into chunks at top-level declaration
// boundaries if it has more than threshold lines; otherwise it returns a
// single chunk covering the whole file, so callers can treat small and
// large files identically.
func AnalyzeFile(content string, threshold int) []Chunk {
	lines := strings.Split(content, "\n")
	if len(lines) <= threshold {
		return []Chunk{{Text: content, StartLine: 1, EndLine: uint32(len(lines))}}
	}

	var boundaries []int // 0-indexed line numbers where a new chunk starts
	depth := 0
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if depth == 0 && startsTopLevelDecl(trimmed) {
			boundaries = append(boundaries, i)
		}
		depth += beginEndDelta(trimmed)
		if depth < 0 {
			depth = 0
		}
	}
	if len(boundaries) == 0 || boundaries[0] != 0 {
		boundaries = append([]int{0}, boundaries...)
	}

	chunks := make([]Chunk, 0, len(boundaries))
	for i, start := range boundaries {
		end := len(lines)
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		chunks = append(chunks, Chunk{
			Text:      strings.Join(lines[start:end], "\n"),
			StartLine: uint32(start + 1),
			EndLine:   uint32(end),
		})
	}
	return chunks
}

func startsTopLevelDecl(trimmed string) bool {
	for _, kw := range topLevelKeywords {
		if strings.HasPrefix(trimmed, kw) {
			rest := trimmed[len(kw):]
			if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '(' {
				return true
			}
		}
	}
	return false
}

// beginEndDelta is a crude brace-free nesting counter: SystemVerilog
// declarations nest via matching `end*` keywords rather than braces, so a
// conservative approximation counts "begin"/"fork" openers against
// "end"/"join" closers to avoid splitting inside a procedural block that
// happens to mention a keyword like "class" in a string or comment.
func beginEndDelta(trimmed string) int {
	delta := 0
	if strings.HasPrefix(trimmed, "begin") || strings.HasPrefix(trimmed, "fork") {
		delta++
	}
	if strings.HasPrefix(trimmed, "end") || strings.HasPrefix(trimmed, "join") {
		delta--
	}
	return delta
}
