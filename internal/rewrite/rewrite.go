// Package rewrite scans text files for resolve directives embedded in comments
// and substitutes the addressed IPv4 address on the same line with the
// directive hostname's currently resolved address.
package rewrite

import (
	"regexp"
	"slices"

	"github.com/cerfical/resolve/internal/log"
	"github.com/cerfical/resolve/internal/resolver"
	"github.com/spf13/afero"
)

// BackupExt is the extension appended to backup copies of edited files.
const BackupExt = ".bk"

// Deliberately loose: dotted-quad shape only, no range validation
var addressRegexp = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

func New(ops ...Option) *Rewriter {
	defaults := []Option{
		WithFS(afero.NewOsFs()),
		WithResolver(resolver.NewSystem()),
		WithLogger(log.Discard),
		WithComment("#"),
	}

	var r Rewriter
	for _, op := range slices.Concat(defaults, ops) {
		op(&r)
	}

	r.trigger = newTrigger(r.comment)
	return &r
}

func WithFS(fs afero.Fs) Option {
	return func(r *Rewriter) {
		r.fs = fs
	}
}

func WithResolver(res resolver.Resolver) Option {
	return func(r *Rewriter) {
		r.resolver = res
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Rewriter) {
		r.log = l
	}
}

func WithComment(comment string) Option {
	return func(r *Rewriter) {
		r.comment = comment
	}
}

func WithBackup(backup bool) Option {
	return func(r *Rewriter) {
		r.backup = backup
	}
}

func WithRecursive(recursive bool) Option {
	return func(r *Rewriter) {
		r.recursive = recursive
	}
}

type Option func(*Rewriter)

type Rewriter struct {
	fs       afero.Fs
	resolver resolver.Resolver
	log      *log.Logger

	comment   string
	backup    bool
	recursive bool

	trigger *regexp.Regexp
}

// newTrigger compiles the directive pattern for the given comment text.
// The hostname token must terminate the line.
func newTrigger(comment string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(comment) + `\s*resolve:\s*(\S+)$`)
}
