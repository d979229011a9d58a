// Package main provides a CLI that prepares NPC templates and prints their
// derived statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/config"
	"github.com/cory-johannsen/bestiary/internal/game/adjustment"
	"github.com/cory-johannsen/bestiary/internal/game/check"
	"github.com/cory-johannsen/bestiary/internal/game/compendium"
	"github.com/cory-johannsen/bestiary/internal/game/condition"
	"github.com/cory-johannsen/bestiary/internal/game/dice"
	"github.com/cory-johannsen/bestiary/internal/game/inventory"
	"github.com/cory-johannsen/bestiary/internal/game/npc"
	"github.com/cory-johannsen/bestiary/internal/game/rules"
	"github.com/cory-johannsen/bestiary/internal/i18n"
	"github.com/cory-johannsen/bestiary/internal/observability"
	"github.com/cory-johannsen/bestiary/internal/scripting"
	"github.com/cory-johannsen/bestiary/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	only := flag.String("npc", "", "template id to prepare (default: all)")
	tierName := flag.String("tier", "normal", "adjustment to apply: normal, elite, or weak")
	locale := flag.String("locale", "", "display locale (default: locale.default)")
	conditions := flag.String("conditions", "", "conditions to apply, e.g. frightened:2,off-guard")
	roll := flag.Bool("roll", false, "roll every strike's first attack and damage")
	store := flag.Bool("store", false, "persist the prepared snapshots to the database")
	flag.Parse()

	tier, err := adjustment.ParseTier(*tierName)
	if err != nil {
		log.Fatalf("parsing tier: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "npcstat")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer observability.Sync(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger, runOptions{
		only:       *only,
		tier:       tier,
		locale:     *locale,
		conditions: *conditions,
		roll:       *roll,
		store:      *store,
		out:        os.Stdout,
	}); err != nil {
		logger.Fatal("npcstat failed", zap.Error(err))
	}

	logger.Info("npcstat finished", zap.Duration("elapsed", time.Since(start)))
}

type runOptions struct {
	only       string
	tier       adjustment.Tier
	locale     string
	conditions string
	roll       bool
	store      bool
	out        io.Writer
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, ro runOptions) error {
	bundle, err := i18n.NewBundle()
	if err != nil {
		return fmt.Errorf("loading locales: %w", err)
	}
	if cfg.Content.LocaleDir != "" {
		if err := bundle.LoadFromFS(os.DirFS(cfg.Content.LocaleDir)); err != nil {
			return fmt.Errorf("loading locales from %q: %w", cfg.Content.LocaleDir, err)
		}
	}
	localizer := bundle.Localizer(ro.locale, cfg.Locale.Default)
	logger.Info("locale selected", zap.String("locale", localizer.Tag()), zap.Strings("available", bundle.Tags()))

	glossary := compendium.NewGlossary()
	if dirExists(cfg.Content.GlossaryDir) {
		if glossary, err = compendium.LoadDirectory(cfg.Content.GlossaryDir); err != nil {
			return err
		}
	}
	logger.Info("compendium loaded", zap.Int("entries", glossary.Len()))

	scripts := scripting.NewManager(logger, cfg.Rules.LuaInstructionLimit)
	defer scripts.Close()
	if dirExists(cfg.Content.ScriptDir) {
		if err := scripts.LoadDirectory(cfg.Content.ScriptDir); err != nil {
			return err
		}
	}
	logger.Info("rule scripts loaded", zap.Strings("scripts", scripts.Scripts()))

	conds := condition.NewRegistry()
	if dirExists(cfg.Content.ConditionDir) {
		if conds, err = condition.LoadDirectory(cfg.Content.ConditionDir); err != nil {
			return err
		}
	}
	applied, err := parseConditions(ro.conditions, conds)
	if err != nil {
		return err
	}

	items := inventory.NewRegistry()
	if dirExists(cfg.Content.ItemDir) {
		if items, err = inventory.LoadRegistry(cfg.Content.ItemDir); err != nil {
			return err
		}
	}
	logger.Info("items loaded", zap.Int("items", items.Len()))

	templates, err := npc.LoadTemplates(cfg.Content.NPCDir)
	if err != nil {
		return fmt.Errorf("loading npc templates: %w", err)
	}
	for _, tmpl := range templates {
		if tmpl.Loot == nil {
			continue
		}
		if err := tmpl.Loot.CheckItems(items); err != nil {
			logger.Warn("loot table refers to undefined items",
				zap.String("npc", tmpl.ID),
				zap.Error(err),
			)
		}
	}

	preparer := npc.NewPreparer(rules.Chain{rules.ItemSource{}, condition.Source{Registry: conds}, scripts}, npc.Options{
		Translator: localizer,
		MAP: npc.MAPTable{
			Standard: [2]int{cfg.Rules.MAPSecond, cfg.Rules.MAPThird},
			Agile:    [2]int{cfg.Rules.MAPAgileSecond, cfg.Rules.MAPAgileThird},
		},
		Effects: npc.NewEffectGatherer(glossary, logger),
	}, logger)
	mgr := npc.NewManager(preparer)

	for _, tmpl := range templates {
		if ro.only != "" && tmpl.ID != ro.only {
			continue
		}
		inst, err := mgr.Spawn(ctx, tmpl)
		if err != nil {
			return err
		}
		if ro.tier != adjustment.Normal {
			if _, err := mgr.ApplyTier(ctx, inst.ID, ro.tier); err != nil {
				return err
			}
		}
		for _, c := range applied {
			if _, err := mgr.ApplyCondition(ctx, inst.ID, c.def, c.value); err != nil {
				return err
			}
		}
	}

	instances := mgr.List()
	if len(instances) == 0 {
		return fmt.Errorf("no npc templates matched %q in %q", ro.only, cfg.Content.NPCDir)
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].TemplateID < instances[j].TemplateID })

	src := dice.NewCryptoSource()
	exec := check.NewDiceExecutor(dice.NewLoggedRoller(src, logger), logger)
	for _, inst := range instances {
		printInstance(ro.out, inst, localizer)
		if cfg.Rules.LootableNPCs && inst.Loot != nil {
			printLoot(ro.out, npc.GenerateLoot(*inst.Loot, src), items, localizer)
		}
		if ro.roll {
			if err := rollStrikes(ctx, ro.out, exec, inst); err != nil {
				return err
			}
		}
	}

	if ro.store {
		return storeAll(ctx, cfg, logger, instances)
	}
	return nil
}

func printInstance(w io.Writer, inst *npc.Instance, tr *i18n.Localizer) {
	d := inst.Derived
	fmt.Fprintf(w, "%s (%s) level %d [%s]\n", d.Name, d.Tier, d.Level, strings.Join(d.Traits, ", "))
	if ids := inst.Snapshot.Conditions.IDs(); len(ids) > 0 {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = fmt.Sprintf("%s %d", id, inst.Snapshot.Conditions.Stacks(id))
		}
		fmt.Fprintf(w, "  Conditions: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(w, "  %s: %d (%s)\n", tr.Localize("npc.ac"), d.AC.Value, d.AC.Statistic.Breakdown)
	fmt.Fprintf(w, "  HP: %d/%d (%s) %s\n", d.HP.Value, d.HP.Max, d.HP.Statistic.Breakdown, inst.HealthDescription())
	fmt.Fprintf(w, "  Speed: %d (%s)\n", d.Speed.Total, d.Speed.Statistic.Breakdown)
	for _, name := range []string{"fortitude", "reflex", "will"} {
		if s, ok := d.Saves[name]; ok {
			fmt.Fprintf(w, "  %s: %+d (%s)\n", tr.Localize("npc.save."+name), s.Value, s.Breakdown())
		}
	}
	if d.Perception != nil {
		fmt.Fprintf(w, "  %s: %+d (%s)\n", tr.Localize("npc.perception"), d.Perception.Value, d.Perception.Breakdown())
	}
	for _, s := range d.Strikes {
		labels := make([]string, len(s.Variants))
		for i, v := range s.Variants {
			labels[i] = v.Label
		}
		fmt.Fprintf(w, "  %s: %s; %s\n", s.Name, strings.Join(labels, " / "), strings.Join(s.DamageBreakdown, ", "))
	}
	for _, sc := range d.Spellcasting {
		fmt.Fprintf(w, "  %s (%s): %+d, DC %d\n", sc.Name, sc.Tradition, sc.Attack.Value, sc.DC.Value)
	}
	fmt.Fprintf(w, "  Wealth: %s\n", d.Wealth.Format(tr))
}

func printLoot(w io.Writer, loot npc.LootResult, items *inventory.Registry, tr *i18n.Localizer) {
	fmt.Fprintf(w, "  Loot: %s", loot.Currency.Format(tr))
	for _, item := range loot.Items {
		name := item.ItemDefID
		if def, ok := items.Item(item.ItemDefID); ok {
			name = def.Name
		}
		fmt.Fprintf(w, "; %s x%d", name, item.Quantity)
	}
	fmt.Fprintf(w, " (worth %s)\n", loot.Worth(items).Format(tr))
}

func rollStrikes(ctx context.Context, w io.Writer, exec check.Executor, inst *npc.Instance) error {
	for _, s := range inst.Derived.Strikes {
		res, err := s.Attack(ctx, exec, 0, npc.RollArgs{})
		if err != nil {
			return fmt.Errorf("rolling %q for %q: %w", s.Name, inst.Name(), err)
		}
		fmt.Fprintf(w, "  %s attack: %d (natural %d)\n", s.Name, res.Total, res.Natural)
		for _, n := range res.Notes {
			fmt.Fprintf(w, "    %s\n", n.Text)
		}
		dmg, err := s.Damage(ctx, exec, npc.RollArgs{})
		if err != nil {
			// Strikes without damage rolls still attack.
			continue
		}
		fmt.Fprintf(w, "  %s damage: %d %s\n", s.Name, dmg.Total, dmg.Spec.DamageType)
	}
	return nil
}

func storeAll(ctx context.Context, cfg config.Config, logger *zap.Logger, instances []*npc.Instance) error {
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	repo := pool.NPCs()
	for _, inst := range instances {
		stored, err := repo.SaveInstance(ctx, inst)
		if err != nil {
			return err
		}
		logger.Info("npc stored",
			zap.String("id", stored.Snapshot.ID),
			zap.String("template", stored.TemplateID),
			zap.Time("updated_at", stored.UpdatedAt),
		)
	}
	return nil
}

type appliedCondition struct {
	def   *condition.ConditionDef
	value int
}

// parseConditions reads a comma-separated list of "id" or "id:value".
func parseConditions(list string, reg *condition.Registry) ([]appliedCondition, error) {
	var out []appliedCondition
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, raw, found := strings.Cut(part, ":")
		value := 1
		if found {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				return nil, fmt.Errorf("condition %q: value must be a positive integer", part)
			}
			value = v
		}
		def, ok := reg.Get(id)
		if !ok {
			return nil, fmt.Errorf("condition %q is not defined", id)
		}
		out = append(out, appliedCondition{def: def, value: value})
	}
	return out, nil
}

func dirExists(dir string) bool {
	if dir == "" {
		return false
	}
	fi, err := os.Stat(dir)
	return err == nil && fi.IsDir()
}
