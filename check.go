// Package scrutinium checks a mod pack for consistency problems: stale and
// broken table data, malformed localization, dead paths and dangerous
// names. Checks run in parallel over batches of related files, so findings
// that span several files of the same table family are still caught.
package scrutinium

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/farcloser/primordium/fault"
	"golang.org/x/sync/errgroup"

	"github.com/farcloser/scrutinium/internal/audit/animfrag"
	"github.com/farcloser/scrutinium/internal/audit/config"
	"github.com/farcloser/scrutinium/internal/audit/depsmgr"
	"github.com/farcloser/scrutinium/internal/audit/loc"
	"github.com/farcloser/scrutinium/internal/audit/packfile"
	"github.com/farcloser/scrutinium/internal/audit/portrait"
	"github.com/farcloser/scrutinium/internal/audit/script"
	"github.com/farcloser/scrutinium/internal/audit/shared"
	"github.com/farcloser/scrutinium/internal/audit/table"
	"github.com/farcloser/scrutinium/internal/deps"
	"github.com/farcloser/scrutinium/internal/ignore"
	"github.com/farcloser/scrutinium/internal/types"
	"github.com/farcloser/scrutinium/report"
)

// Batch keys for the kinds that are not grouped by table family.
const (
	batchAnimFragments    = "anim_fragment_battle"
	batchLocs             = "locs"
	batchPortraitSettings = "portrait_settings"
	batchScripts          = "lua"
)

// Request describes one check run.
type Request struct {
	Pack     *types.Pack
	Deps     deps.Provider
	Schema   *types.Schema
	Game     *types.GameInfo
	GamePath string

	// PathsToCheck restricts the run to the named files or folders. Records
	// for the rest of the pack are kept from the previous run. Empty means
	// a full check.
	PathsToCheck []string

	// CheckAKOnlyRefs reports broken references into tables that only exist
	// in the assembly kit data.
	CheckAKOnlyRefs bool
}

var checkedKinds = []types.FileKind{ //nolint:gochecknoglobals // static kind list
	types.KindAnimFragmentBattle,
	types.KindDB,
	types.KindLoc,
	types.KindPortraitSettings,
	types.KindText,
}

// Check runs the diagnostics pass described by req and stores the records
// in d.Results. Config problems that make dependency data unusable block
// the run: they are reported and everything else is skipped.
func (d *Diagnostics) Check(ctx context.Context, req Request) error {
	if req.Pack == nil || req.Deps == nil || req.Schema == nil || req.Game == nil {
		return fmt.Errorf("%w: pack, dependency data, schema and game are required", fault.ErrMissingRequirements)
	}

	d.prune(req.PathsToCheck)

	// Config problems first, they decide whether anything else can run.
	if diag := config.Check(req.Deps, req.Game, req.GamePath); diag != nil {
		d.Results = append(d.Results, diag)
		d.sortResults()

		return nil
	}

	rules := d.fileRules(req.Pack)
	global := ignore.NewGlobal(d.FieldsIgnored, d.CodesIgnored)

	var files []*types.File
	if len(req.PathsToCheck) == 0 {
		files = req.Pack.FilesByKinds(checkedKinds)
	} else {
		files = req.Pack.FilesByKindsAndPaths(checkedKinds, req.PathsToCheck, false)
	}

	if err := decodeAll(ctx, files); err != nil {
		return err
	}

	batches := partition(files)

	tableNames := make([]string, 0, len(batches))

	for name := range batches {
		switch name {
		case batchAnimFragments, batchLocs, batchPortraitSettings, batchScripts:
		default:
			tableNames = append(tableNames, name)
		}
	}

	// Full checks always refresh the local index, even with zero table
	// batches; only a table-free partial check skips the work.
	if len(req.PathsToCheck) == 0 || len(tableNames) > 0 {
		req.Deps.GenerateLocalTableReferences(req.Schema, req.Pack, tableNames)
	}

	var locLookup map[string]string

	if len(tableNames) > 0 {
		lookup, err := buildLocLookup(ctx, req.Pack, req.Deps)
		if err != nil {
			return err
		}

		locLookup = lookup
	}

	lookup := shared.NewLookup(req.Pack.PathSet(), req.Pack.FolderSet(), req.Deps)

	tableEnv := &table.Env{
		Pack:            req.Pack,
		Game:            req.Game,
		Schema:          req.Schema,
		Deps:            req.Deps,
		Lookup:          lookup,
		LocLookup:       locLookup,
		AKDataLoaded:    req.Deps.IsAKDataLoaded(),
		CheckAKOnlyRefs: req.CheckAKOnlyRefs,
	}

	scriptEnv := &script.Env{Pack: req.Pack, Deps: req.Deps}

	var portraitEnv *portrait.Env

	if _, found := batches[batchPortraitSettings]; found {
		portraitEnv = &portrait.Env{
			ArtSetIDs:        req.Deps.LookupValues(req.Pack, "campaign_character_arts_tables", "art_set_id", true, true),
			VariantFilenames: req.Deps.LookupValues(req.Pack, "variants_tables", "variant_filename", true, true),
			Lookup:           lookup,
		}
	}

	// Batches run in parallel, files inside one batch sequentially: the
	// duplicate-key indexes are shared across the whole batch.
	names := make([]string, 0, len(batches))
	for name := range batches {
		names = append(names, name)
	}

	slices.Sort(names)

	slots := make([][]*report.Diagnostic, len(names))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range names {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err //nolint:wrapcheck // context cancellation passes through
			}

			slots[i] = checkBatch(batches[name], rules, global, tableEnv, scriptEnv, portraitEnv)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err //nolint:wrapcheck // first worker error passes through
	}

	for _, diags := range slots {
		d.Results = append(d.Results, diags...)
	}

	if diag := depsmgr.Check(req.Pack); diag != nil {
		d.Results = append(d.Results, diag)
	}

	if diag := packfile.Check(req.Pack); diag != nil {
		d.Results = append(d.Results, diag)
	}

	d.sortResults()

	return nil
}

// checkBatch runs one batch to completion. Batch-shared state is created
// here so duplicates across the batch's files collide in one index.
func checkBatch(files []*types.File, rules []types.IgnoreRule, global ignore.Global,
	tableEnv *table.Env, scriptEnv *script.Env, portraitEnv *portrait.Env,
) []*report.Diagnostic {
	var (
		out        []*report.Diagnostic
		tableBatch *table.Batch
		locBatch   *loc.Batch
	)

	for _, file := range files {
		sup, skip := ignore.ForFile(file.Path(), rules)
		if skip {
			continue
		}

		var diag *report.Diagnostic

		switch file.Kind() {
		case types.KindDB:
			if tableBatch == nil {
				tableBatch = table.NewBatch()
			}

			diag = table.Check(tableEnv, tableBatch, file, global, sup)

		case types.KindLoc:
			if locBatch == nil {
				locBatch = loc.NewBatch()
			}

			diag = loc.Check(locBatch, file, global, sup)

		case types.KindText:
			diag = script.Check(scriptEnv, file, global, sup)

		case types.KindAnimFragmentBattle:
			diag = animfrag.Check(tableEnv.Lookup, file, global, sup)

		case types.KindPortraitSettings:
			if portraitEnv != nil {
				diag = portrait.Check(portraitEnv, file, global, sup)
			}

		case types.KindUnknown:
		}

		if diag != nil {
			out = append(out, diag)
		}
	}

	return out
}

// prune prepares d.Results for a new run. A full check starts from scratch;
// a partial check keeps previous records except those for re-checked paths,
// and drops everything recomputed on every run: the config findings and the
// whole-pack dependency and pack-name records.
func (d *Diagnostics) prune(pathsToCheck []string) {
	if len(pathsToCheck) == 0 {
		d.Results = nil

		return
	}

	kept := d.Results[:0]

	for _, diag := range d.Results {
		if diag.Path != "" && matchesAny(diag.Path, pathsToCheck) {
			continue
		}

		if diag.Kind == report.KindDependency || diag.Kind == report.KindPack {
			continue
		}

		if diag.Kind == report.KindConfig {
			diag.Findings = slices.DeleteFunc(diag.Findings, func(finding report.Finding) bool {
				switch finding.Code {
				case report.CodeIncorrectGamePath,
					report.CodeDependenciesCacheNotGenerated,
					report.CodeDependenciesCacheOutdated,
					report.CodeDependenciesCacheCouldNotBeLoaded:
					return true
				default:
					return false
				}
			})

			if diag.Empty() {
				continue
			}
		}

		kept = append(kept, diag)
	}

	d.Results = kept
}

// fileRules merges the pack's own ignore rules with the session's ignored
// folders and files, expressed as whole-file skip rules.
func (d *Diagnostics) fileRules(pack *types.Pack) []types.IgnoreRule {
	rules := slices.Clone(pack.Settings().IgnoreRules)

	for _, folder := range d.FoldersIgnored {
		rules = append(rules, types.IgnoreRule{PathPrefix: strings.TrimSuffix(folder, "/") + "/"})
	}

	for _, file := range d.FilesIgnored {
		rules = append(rules, types.IgnoreRule{PathPrefix: file})
	}

	return rules
}

// decodeAll forces every lazy decoder up front, in parallel, so the batch
// workers never race on a file's decode state.
func decodeAll(ctx context.Context, files []*types.File) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for _, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err //nolint:wrapcheck // context cancellation passes through
			}

			// Undecodable files are skipped by the checkers.
			_ = file.Decode(false)

			return nil
		})
	}

	return group.Wait() //nolint:wrapcheck // context cancellation passes through
}

// partition groups files into check batches: DB tables by family, every
// other kind into one batch per kind.
func partition(files []*types.File) map[string][]*types.File {
	batches := map[string][]*types.File{}

	for _, file := range files {
		var key string

		switch file.Kind() {
		case types.KindDB:
			segments := file.PathSplit()
			if len(segments) < 3 {
				continue
			}

			key = segments[1]

		case types.KindAnimFragmentBattle:
			key = batchAnimFragments

		case types.KindLoc:
			key = batchLocs

		case types.KindPortraitSettings:
			key = batchPortraitSettings

		case types.KindText:
			if !strings.HasSuffix(strings.ToLower(file.Path()), ".lua") {
				continue
			}

			key = batchScripts

		case types.KindUnknown:
			continue
		}

		batches[key] = append(batches[key], file)
	}

	return batches
}

// buildLocLookup maps every loc key to its text, vanilla entries overridden
// by the pack's own. Files are read in parallel, merged in source order.
func buildLocLookup(ctx context.Context, pack *types.Pack, provider deps.Provider) (map[string]string, error) {
	files := provider.VanillaLocFiles()
	files = append(files, pack.FilesByKinds([]types.FileKind{types.KindLoc})...)

	partials := make([]map[string]string, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err //nolint:wrapcheck // context cancellation passes through
			}

			decoded, err := file.Decoded()
			if err != nil {
				return nil //nolint:nilerr // undecodable locs contribute nothing
			}

			entries, ok := decoded.(*types.Loc)
			if !ok {
				return nil
			}

			partial := make(map[string]string, len(entries.Rows))
			for _, row := range entries.Rows {
				if row.Key != "" {
					partial[row.Key] = row.Text
				}
			}

			partials[i] = partial

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // context cancellation passes through
	}

	merged := map[string]string{}

	for _, partial := range partials {
		for key, text := range partial {
			merged[key] = text
		}
	}

	return merged, nil
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}

	return false
}

// sortResults orders records by path, with pathless whole-pack records at
// the end.
func (d *Diagnostics) sortResults() {
	slices.SortStableFunc(d.Results, func(a, b *report.Diagnostic) int {
		switch {
		case a.Path == "" && b.Path == "":
			return 0
		case a.Path == "":
			return 1
		case b.Path == "":
			return -1
		default:
			return strings.Compare(a.Path, b.Path)
		}
	})
}
