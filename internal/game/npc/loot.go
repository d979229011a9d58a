package npc

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/bestiary/internal/game/dice"
	"github.com/cory-johannsen/bestiary/internal/game/inventory"
)

// CurrencyDrop defines the range of coins an NPC can drop on death.
type CurrencyDrop struct {
	Min inventory.Coins `yaml:"min"`
	Max inventory.Coins `yaml:"max"`
}

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable defines the possible loot drops for an NPC template.
type LootTable struct {
	Currency *CurrencyDrop `yaml:"currency"`
	Items    []ItemDrop    `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all currency and item constraints hold;
// an empty loot table (no currency, no items) is valid.
func (lt *LootTable) Validate() error {
	if lt.Currency != nil {
		lo, hi := lt.Currency.Min.Normalize(), lt.Currency.Max.Normalize()
		if lo.CopperValue() > hi.CopperValue() {
			return fmt.Errorf("loot table: currency min (%s) must be <= max (%s)", lo, hi)
		}
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// ItemCatalog resolves the item definitions loot tables refer to.
type ItemCatalog interface {
	Item(id string) (*inventory.ItemDef, bool)
}

// CheckItems reports every item id in lt that catalog does not define.
func (lt *LootTable) CheckItems(catalog ItemCatalog) error {
	var errs []error
	for i, item := range lt.Items {
		if _, ok := catalog.Item(item.ItemID); !ok {
			errs = append(errs, fmt.Errorf("loot table: item[%d] %q is not defined", i, item.ItemID))
		}
	}
	return errors.Join(errs...)
}

// LootItem represents a single item instance in a loot result.
type LootItem struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
}

// LootResult holds the generated loot from a single NPC kill.
type LootResult struct {
	Currency inventory.Coins
	Items    []LootItem
}

// chanceResolution is the granularity of drop chance rolls.
const chanceResolution = 1_000_000

// GenerateLoot rolls loot from lt using src.
//
// Precondition: lt must have passed Validate(); src must be non-nil.
// Postcondition: Currency's copper value is within [Min, Max] and is made of
// the fewest coins; each item's Quantity is in [MinQty, MaxQty] for items
// that pass the chance roll.
func GenerateLoot(lt LootTable, src dice.Source) LootResult {
	var result LootResult

	if lt.Currency != nil {
		lo := lt.Currency.Min.Normalize().CopperValue()
		hi := lt.Currency.Max.Normalize().CopperValue()
		amount := lo
		if spread := hi - lo; spread > 0 {
			amount += src.Intn(spread + 1)
		}
		result.Currency = inventory.FromCopper(amount)
	}

	for _, item := range lt.Items {
		if float64(src.Intn(chanceResolution)) < item.Chance*chanceResolution {
			qty := item.MinQty
			if spread := item.MaxQty - item.MinQty; spread > 0 {
				qty += src.Intn(spread + 1)
			}
			result.Items = append(result.Items, LootItem{
				ItemDefID:  item.ItemID,
				InstanceID: uuid.New().String(),
				Quantity:   qty,
			})
		}
	}

	return result
}

// Worth is the total value of r: its currency plus each item priced
// through catalog. Items the catalog does not define are worth nothing.
func (r LootResult) Worth(catalog ItemCatalog) inventory.Coins {
	total := r.Currency
	for _, item := range r.Items {
		if def, ok := catalog.Item(item.ItemDefID); ok {
			total = total.Plus(def.Worth(item.Quantity))
		}
	}
	return total
}
