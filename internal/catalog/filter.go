package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// All matches every value of a facet.
const All = "All"

// Options are the values offered for each facet, each list starting with All.
type Options struct {
	Categories []string
	Formats    []string
	Languages  []string
}

// BuildOptions collects distinct facet values. Categories and languages are
// sorted by name, formats by resolution, highest first.
func BuildOptions(videos []Video) Options {
	var cats, formats, langs []string
	for _, v := range videos {
		cats = appendUnique(cats, v.Category)
		formats = appendUnique(formats, v.Format)
		langs = appendUnique(langs, v.Language)
	}
	slices.Sort(cats)
	slices.Sort(langs)
	slices.SortStableFunc(formats, func(a, b string) int {
		return cmp.Compare(resolution(b), resolution(a))
	})
	return Options{
		Categories: append([]string{All}, cats...),
		Formats:    append([]string{All}, formats...),
		Languages:  append([]string{All}, langs...),
	}
}

func appendUnique(list []string, s string) []string {
	if s == "" || slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

// resolution reads the leading number of a format such as "1080p".
func resolution(format string) int {
	end := strings.IndexFunc(format, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(format)
	}
	n, _ := strconv.Atoi(format[:end])
	return n
}

// Filter selects videos by facet. Empty or All matches everything.
type Filter struct {
	Category string
	Format   string
	Language string
}

// Match reports whether v passes every facet.
func (f Filter) Match(v Video) bool {
	return facet(f.Category, v.Category) && facet(f.Format, v.Format) && facet(f.Language, v.Language)
}

func facet(want, got string) bool {
	return want == "" || want == All || want == got
}

// Apply returns the videos that match f.
func (f Filter) Apply(videos []Video) []Video {
	var out []Video
	for _, v := range videos {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reset clears every facet.
func (f *Filter) Reset() {
	*f = Filter{Category: All, Format: All, Language: All}
}
