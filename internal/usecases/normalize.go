package usecases

import (
	"strings"

	"crew-directory.backend/internal/domain/entities"
)

var linkTypeKeys = func() map[string]entities.LinkType {
	m := make(map[string]entities.LinkType, len(entities.LinkTypes))
	for _, lt := range entities.LinkTypes {
		m[linkTypeKey(string(lt))] = lt
	}
	return m
}()

// NormalizeSlug is the single comparison form for freelancer, department and
// skill slugs.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// NormalizeLinkType maps a stored link type such as "linked in" or
// "INSTAGRAM" onto the closed set of link types.
func NormalizeLinkType(raw string) (entities.LinkType, bool) {
	lt, ok := linkTypeKeys[linkTypeKey(raw)]
	return lt, ok
}

func linkTypeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
