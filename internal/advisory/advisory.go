// Package advisory renders the follow-up checklist for a classification.
package advisory

import (
	"fmt"
	"html"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/nahidhasan98/diff-notifier/internal/models"
)

// Header opens every non-empty advisory
const Header = "After pulling this commit, you need to:"

// DefaultPool holds the phrases used when nothing needs to be done
var DefaultPool = []string{
	"You can pull the new commits directly.",
	"What are you waiting for? Grab <code>git pull</code> while it's hot!",
	"Friends don't let friends skip <code>git pull</code>. A brand new version is waiting.",
}

// Commands are the shell commands quoted in the advisory
type Commands struct {
	PackageInstall    string
	AssetBuild        string
	DependencyInstall string
	Migrate           string
}

// DefaultCommands returns the commands used when none are configured
func DefaultCommands() Commands {
	return Commands{
		PackageInstall:    "yarn",
		AssetBuild:        "pwsh ./scripts/build.ps1",
		DependencyInstall: "composer install",
		Migrate:           "php artisan migrate",
	}
}

func (c Commands) withDefaults() Commands {
	def := DefaultCommands()
	if c.PackageInstall == "" {
		c.PackageInstall = def.PackageInstall
	}
	if c.AssetBuild == "" {
		c.AssetBuild = def.AssetBuild
	}
	if c.DependencyInstall == "" {
		c.DependencyInstall = def.DependencyInstall
	}
	if c.Migrate == "" {
		c.Migrate = def.Migrate
	}
	return c
}

// Chooser picks an index in [0, n)
type Chooser func(n int) int

// NewRandomChooser returns a uniform Chooser seeded with seed. It is safe
// for concurrent use.
func NewRandomChooser(seed uint64) Chooser {
	var mu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return rng.IntN(n)
	}
}

// Options configures a Renderer
type Options struct {
	Commands Commands
	Pool     []string
	Chooser  Chooser
}

// Renderer turns a classification into a human-readable checklist
type Renderer struct {
	commands Commands
	pool     []string
	choose   Chooser
}

// New creates a renderer; zero fields fall back to defaults
func New(opts Options) *Renderer {
	pool := opts.Pool
	if len(pool) == 0 {
		pool = DefaultPool
	}
	choose := opts.Chooser
	if choose == nil {
		choose = func(n int) int { return rand.IntN(n) }
	}

	return &Renderer{
		commands: opts.Commands.withDefaults(),
		pool:     pool,
		choose:   choose,
	}
}

// Pool returns the phrases used when no action is needed
func (r *Renderer) Pool() []string {
	return append([]string(nil), r.pool...)
}

// Render returns the advisory for c
func (r *Renderer) Render(c models.Classification) string {
	if !c.Any() {
		i := r.choose(len(r.pool))
		if i < 0 || i >= len(r.pool) {
			i = 0
		}
		return r.pool[i]
	}

	steps := make([]string, 0, 3)

	switch {
	case c.NeedsPackageManagerInstall:
		steps = append(steps, fmt.Sprintf("Run %s, then run %s.", code(r.commands.PackageInstall), code(r.commands.AssetBuild)))
	case c.NeedsAssetBuild:
		steps = append(steps, fmt.Sprintf("Run %s.", code(r.commands.AssetBuild)))
	}

	if c.NeedsDependencyInstall {
		steps = append(steps, fmt.Sprintf("Run %s.", code(r.commands.DependencyInstall)))
	}

	if c.NeedsDatabaseMigration {
		steps = append(steps, fmt.Sprintf("Run %s.", code(r.commands.Migrate)))
	}

	return Header + "\n" + strings.Join(steps, "\n")
}

func code(cmd string) string {
	return "<code>" + html.EscapeString(cmd) + "</code>"
}
