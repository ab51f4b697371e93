package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/internal/infrastructure/cache"
	"crew-directory.backend/pkg/logger"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// FreelancerCacheTag covers all three freelancer snapshots
	FreelancerCacheTag = "freelancers"

	freelancerRecordsKey = "freelancers:records"
	freelancerSkillsKey  = "freelancers:skills"
	freelancerLinksKey   = "freelancers:links"

	DefaultCacheTTL = time.Hour
)

// AssetURLBuilder turns a stored asset id into a fetchable URL
type AssetURLBuilder interface {
	BuildURL(assetID null.String) null.String
}

// LinkRowLister reads raw link rows, empty ones included
type LinkRowLister interface {
	ListAllLinkRows(ctx context.Context) ([]entities.LinkRecord, error)
}

// FreelancerResolver joins the cached freelancer, skill and link snapshots
// into presentation projections. Only the snapshots are cached; every call
// joins them again.
type FreelancerResolver struct {
	source   repositories.FreelancerSource
	linkRows LinkRowLister
	cache    *cache.QueryCache
	urls     AssetURLBuilder
	ttl      time.Duration
	locale   language.Tag
}

// NewFreelancerResolver creates a resolver. A zero ttl means DefaultCacheTTL.
func NewFreelancerResolver(
	source repositories.FreelancerSource,
	linkRows LinkRowLister,
	queryCache *cache.QueryCache,
	urls AssetURLBuilder,
	ttl time.Duration,
) *FreelancerResolver {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &FreelancerResolver{
		source:   source,
		linkRows: linkRows,
		cache:    queryCache,
		urls:     urls,
		ttl:      ttl,
		locale:   language.English,
	}
}

func (r *FreelancerResolver) records(ctx context.Context) ([]entities.FreelancerRecord, error) {
	out, err := cache.Load(ctx, r.cache, freelancerRecordsKey, r.ttl,
		[]string{FreelancerCacheTag, freelancerRecordsKey}, r.source.ListFreelancerRecords)
	if err != nil {
		return nil, fmt.Errorf("load freelancer records: %w", err)
	}
	return out, nil
}

func (r *FreelancerResolver) memberships(ctx context.Context) ([]entities.SkillMembership, error) {
	out, err := cache.Load(ctx, r.cache, freelancerSkillsKey, r.ttl,
		[]string{FreelancerCacheTag, freelancerSkillsKey}, r.source.ListSkillMemberships)
	if err != nil {
		return nil, fmt.Errorf("load skill memberships: %w", err)
	}
	return out, nil
}

func (r *FreelancerResolver) links(ctx context.Context) ([]entities.LinkRecord, error) {
	out, err := cache.Load(ctx, r.cache, freelancerLinksKey, r.ttl,
		[]string{FreelancerCacheTag, freelancerLinksKey}, r.source.ListLinkRecords)
	if err != nil {
		return nil, fmt.Errorf("load freelancer links: %w", err)
	}
	return out, nil
}

// skillKey identifies a skill within a department. The same skill id may
// appear under several departments.
type skillKey struct{ dept, skill int64 }

// ResolveBySlug returns the full projection of one freelancer. The slug is
// matched case-insensitively.
func (r *FreelancerResolver) ResolveBySlug(ctx context.Context, slug string) (*entities.FreelancerProjection, error) {
	want := NormalizeSlug(slug)
	if want == "" {
		return nil, domainerrors.ErrNotFound
	}

	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	var match *entities.FreelancerRecord
	for i := range records {
		if NormalizeSlug(records[i].Slug) == want {
			match = &records[i]
			break
		}
	}
	if match == nil {
		return nil, domainerrors.ErrNotFound
	}

	memberships, err := r.memberships(ctx)
	if err != nil {
		return nil, err
	}
	links, err := r.links(ctx)
	if err != nil {
		return nil, err
	}

	skills := make([]entities.SkillInfo, 0)
	seen := make(map[skillKey]bool)
	for _, m := range memberships {
		key := skillKey{m.DepartmentID, m.SkillID}
		if m.FreelancerID != match.ID || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, m.Info())
	}

	return &entities.FreelancerProjection{
		FreelancerSummary: r.summarize(*match, indexLinks(links)[match.ID]),
		Skills:            skills,
	}, nil
}

// ResolveBySkill returns every freelancer holding the skill, sorted by name.
// Memberships that point at unknown freelancers are skipped.
func (r *FreelancerResolver) ResolveBySkill(ctx context.Context, departmentSlug, skillSlug string) (*entities.SkillListing, error) {
	dept, skill := NormalizeSlug(departmentSlug), NormalizeSlug(skillSlug)
	if dept == "" || skill == "" {
		return nil, domainerrors.ErrNotFound
	}

	memberships, err := r.memberships(ctx)
	if err != nil {
		return nil, err
	}

	var info *entities.SkillInfo
	members := make(map[int64]bool)
	for _, m := range memberships {
		if NormalizeSlug(m.DepartmentSlug) != dept || NormalizeSlug(m.SkillSlug) != skill {
			continue
		}
		if info == nil {
			i := m.Info()
			info = &i
		}
		members[m.FreelancerID] = true
	}
	if info == nil {
		return nil, domainerrors.ErrNotFound
	}

	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	links, err := r.links(ctx)
	if err != nil {
		return nil, err
	}
	byFreelancer := indexLinks(links)

	freelancers := make([]entities.FreelancerSummary, 0, len(members))
	for _, rec := range records {
		if members[rec.ID] {
			freelancers = append(freelancers, r.summarize(rec, byFreelancer[rec.ID]))
		}
	}
	r.sortSummaries(freelancers)

	return &entities.SkillListing{
		Skill:           *info,
		Freelancers:     freelancers,
		FreelancerCount: len(freelancers),
	}, nil
}

// ListFreelancers returns every freelancer, sorted by name
func (r *FreelancerResolver) ListFreelancers(ctx context.Context) ([]entities.FreelancerSummary, error) {
	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	links, err := r.links(ctx)
	if err != nil {
		return nil, err
	}
	byFreelancer := indexLinks(links)

	out := make([]entities.FreelancerSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, r.summarize(rec, byFreelancer[rec.ID]))
	}
	r.sortSummaries(out)
	return out, nil
}

// ListDirectory groups skills under their departments with the number of
// known freelancers holding each skill.
func (r *FreelancerResolver) ListDirectory(ctx context.Context) ([]entities.Department, error) {
	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := r.memberships(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[int64]bool, len(records))
	for _, rec := range records {
		known[rec.ID] = true
	}

	departments := make(map[int64]*entities.Department)
	skills := make(map[skillKey]*entities.DirectorySkill)
	counted := make(map[skillKey]map[int64]bool)
	for _, m := range memberships {
		if !known[m.FreelancerID] {
			continue
		}
		d, ok := departments[m.DepartmentID]
		if !ok {
			d = &entities.Department{ID: m.DepartmentID, Slug: m.DepartmentSlug, Name: m.DepartmentName}
			departments[m.DepartmentID] = d
		}
		k := skillKey{m.DepartmentID, m.SkillID}
		if _, ok := skills[k]; !ok {
			skills[k] = &entities.DirectorySkill{ID: m.SkillID, Slug: m.SkillSlug, Name: m.SkillName}
			counted[k] = make(map[int64]bool)
		}
		if !counted[k][m.FreelancerID] {
			counted[k][m.FreelancerID] = true
			skills[k].FreelancerCount++
		}
	}

	for k, s := range skills {
		departments[k.dept].Skills = append(departments[k.dept].Skills, *s)
	}

	col := collate.New(r.locale)
	out := make([]entities.Department, 0, len(departments))
	for _, d := range departments {
		sort.SliceStable(d.Skills, func(i, j int) bool {
			return lessCollated(col, d.Skills[i].Name, d.Skills[j].Name, d.Skills[i].Slug, d.Skills[j].Slug)
		})
		out = append(out, *d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessCollated(col, out[i].Name, out[j].Name, out[i].Slug, out[j].Slug)
	})
	return out, nil
}

// LinkGaps lists freelancers whose stored link rows do not cover every link
// type. Rows are read directly from the source, bypassing the cache.
func (r *FreelancerResolver) LinkGaps(ctx context.Context) ([]entities.LinkGap, error) {
	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.linkRows.ListAllLinkRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load link rows: %w", err)
	}

	rowCount := make(map[int64]int)
	present := make(map[int64]map[entities.LinkType]bool)
	for _, row := range rows {
		rowCount[row.FreelancerID]++
		lt, ok := NormalizeLinkType(row.LinkType)
		if !ok {
			continue
		}
		if present[row.FreelancerID] == nil {
			present[row.FreelancerID] = make(map[entities.LinkType]bool)
		}
		present[row.FreelancerID][lt] = true
	}

	gaps := make([]entities.LinkGap, 0)
	for _, rec := range records {
		var missing []entities.LinkType
		for _, lt := range entities.LinkTypes {
			if !present[rec.ID][lt] {
				missing = append(missing, lt)
			}
		}
		if len(missing) == 0 && rowCount[rec.ID] >= len(entities.LinkTypes) {
			continue
		}
		gaps = append(gaps, entities.LinkGap{
			FreelancerID: rec.ID,
			Slug:         rec.Slug,
			DisplayName:  rec.DisplayName,
			LinkRowCount: rowCount[rec.ID],
			Missing:      missing,
		})
	}

	col := collate.New(r.locale)
	sort.SliceStable(gaps, func(i, j int) bool {
		return lessCollated(col, gaps[i].DisplayName, gaps[j].DisplayName, gaps[i].Slug, gaps[j].Slug)
	})
	return gaps, nil
}

// Invalidate drops the cached freelancer snapshots so the next read goes to
// the source. It is safe to call repeatedly.
func (r *FreelancerResolver) Invalidate(ctx context.Context) error {
	if err := r.cache.Invalidate(ctx, FreelancerCacheTag); err != nil {
		logger.Error(ctx, "Freelancer cache invalidation failed", zap.Error(err))
		return err
	}
	return nil
}

// Warm loads all three snapshots into the cache
func (r *FreelancerResolver) Warm(ctx context.Context) error {
	if _, err := r.records(ctx); err != nil {
		return err
	}
	if _, err := r.memberships(ctx); err != nil {
		return err
	}
	_, err := r.links(ctx)
	return err
}

func (r *FreelancerResolver) summarize(rec entities.FreelancerRecord, links entities.ProfileLinks) entities.FreelancerSummary {
	return entities.FreelancerSummary{
		ID:               rec.ID,
		Name:             rec.DisplayName,
		Slug:             rec.Slug,
		Bio:              rec.Bio,
		PhotoURL:         r.assetURL(rec.PhotoAssetID),
		CVURL:            r.assetURL(rec.CVAssetID),
		EquipmentListURL: r.assetURL(rec.EquipmentAssetID),
		Links:            links,
	}
}

func (r *FreelancerResolver) assetURL(assetID null.String) null.String {
	if !assetID.Valid || strings.TrimSpace(assetID.String) == "" || r.urls == nil {
		return null.String{}
	}
	return r.urls.BuildURL(assetID)
}

// sortSummaries orders by display name with locale collation. A collator is
// not safe for concurrent use, so each call builds its own.
func (r *FreelancerResolver) sortSummaries(items []entities.FreelancerSummary) {
	col := collate.New(r.locale)
	sort.SliceStable(items, func(i, j int) bool {
		return lessCollated(col, items[i].Name, items[j].Name, items[i].Slug, items[j].Slug)
	})
}

func lessCollated(col *collate.Collator, a, b, tieA, tieB string) bool {
	if c := col.CompareString(a, b); c != 0 {
		return c < 0
	}
	return tieA < tieB
}

// indexLinks keeps the first non-empty url per freelancer and link type.
// Rows with an unknown type are ignored.
func indexLinks(rows []entities.LinkRecord) map[int64]entities.ProfileLinks {
	out := make(map[int64]entities.ProfileLinks)
	for _, row := range rows {
		url := strings.TrimSpace(row.URL)
		if url == "" {
			continue
		}
		lt, ok := NormalizeLinkType(row.LinkType)
		if !ok {
			continue
		}
		links := out[row.FreelancerID]
		if links.Get(lt).Valid {
			continue
		}
		links.Set(lt, url)
		out[row.FreelancerID] = links
	}
	return out
}
