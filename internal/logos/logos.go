// Package logos maps team names to logo files.
package logos

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
)

// Logo is a resolved team logo. When Found is false the page shows Placeholder instead.
type Logo struct {
	Team        string
	URL         string
	Found       bool
	Placeholder string
}

// Resolver looks logos up in Dir and serves them under Prefix.
type Resolver struct {
	Dir    string
	Prefix string
}

// Team resolves <Dir>/<team>.png.
func (r Resolver) Team(team string) Logo {
	return r.file(team, team+".png", "Logo not found for "+team)
}

// League resolves the league banner shown on the landing page.
func (r Resolver) League() Logo {
	return r.file("Bundesliga", "Bundesliga Logo.gif", "Bundesliga Logo not found.")
}

func (r Resolver) file(team, name, placeholder string) Logo {
	l := Logo{Team: team, Placeholder: placeholder}
	// team names come from data, keep them inside Dir
	if name != filepath.Base(name) {
		return l
	}
	info, err := os.Stat(filepath.Join(r.Dir, name))
	if err != nil || info.IsDir() {
		slog.Warn("Image not found", "path", filepath.Join(r.Dir, name))
		return l
	}
	l.URL = r.Prefix + "/" + url.PathEscape(name)
	l.Found = true
	return l
}
