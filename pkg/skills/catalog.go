package skills

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/superpowers-pi/superpowers/pkg/logger"
)

// Scan walks rootDir and returns every skill directory found at most maxDepth
// levels below it, in lexicographic traversal order. Skill directories are not
// descended into. A missing rootDir yields an empty listing.
//
// Skill files whose metadata cannot be read are skipped and reported in the
// returned error, which never invalidates the listing itself.
func Scan(rootDir string, source SourceType, maxDepth int) ([]Listing, error) {
	listings := make([]Listing, 0)
	var result *multierror.Error

	if rootDir == "" {
		return listings, nil
	}

	var walk func(dir string, level int)
	walk = func(dir string, level int) {
		if level > maxDepth {
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}

		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())

			// Stat follows symlinks so linked skill directories are picked up
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}

			skillFile := filepath.Join(entryPath, SkillFileName)
			if fileInfo, err := os.Stat(skillFile); err != nil || fileInfo.IsDir() {
				walk(entryPath, level+1)
				continue
			}

			md, err := ExtractMetadata(skillFile)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}

			name := md.Name
			if name == "" {
				name = filepath.Base(entryPath)
			}

			listings = append(listings, Listing{
				Name:        name,
				Path:        entryPath,
				Description: md.Description,
				Source:      source,
			})
		}
	}
	walk(rootDir, 1)

	return listings, result.ErrorOrNil()
}

// ScanRoots scans every root in priority order and concatenates the results.
// Names present in several roots appear once per root.
func ScanRoots(ctx context.Context, roots Roots, maxDepth int) []Listing {
	var all []Listing
	for _, root := range roots.Ordered() {
		listings, err := Scan(root.Dir, root.Source, maxDepth)
		if err != nil {
			logger.G(ctx).WithError(errors.Wrapf(err, "scanning %s skills", root.Source)).
				WithField("root", root.Dir).
				Warn("some skills could not be read")
		}
		all = append(all, listings...)
	}
	return all
}

// FormatCatalog renders listings as the text shown by find_skills
func FormatCatalog(listings []Listing) string {
	var sb strings.Builder
	sb.WriteString("Available skills:\n\n")
	for _, l := range listings {
		sb.WriteString(l.QualifiedName() + "\n")
		if l.Description != "" {
			sb.WriteString("  " + l.Description + "\n")
		}
		sb.WriteString("  Directory: " + l.Path + "\n\n")
	}
	return sb.String()
}

// EmptyCatalogMessage explains where to install skills when none were found
func EmptyCatalogMessage(roots Roots) string {
	return fmt.Sprintf("No skills found. Install superpowers skills to %s/ or add personal skills to %s/",
		roots.Superpowers, roots.Personal)
}
