package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

// subjectTable converts s into the npc table passed to rule_elements.
func subjectTable(L *lua.LState, s rules.Subject) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(s.ID))
	t.RawSetString("name", lua.LString(s.Name))
	t.RawSetString("level", lua.LNumber(s.Level))
	t.RawSetString("traits", stringList(L, s.Traits))

	items := L.NewTable()
	for _, it := range s.Items {
		item := L.NewTable()
		item.RawSetString("id", lua.LString(it.ID))
		item.RawSetString("name", lua.LString(it.Name))
		item.RawSetString("type", lua.LString(it.Type))
		items.Append(item)
	}
	t.RawSetString("items", items)

	conditions := L.NewTable()
	for id, v := range s.Conditions {
		conditions.RawSetString(id, lua.LNumber(v))
	}
	t.RawSetString("conditions", conditions)
	return t
}

func stringList(L *lua.LState, values []string) *lua.LTable {
	t := L.NewTable()
	for _, v := range values {
		t.Append(lua.LString(v))
	}
	return t
}

// scriptElement is one element returned by a hook plus the item it credits.
type scriptElement struct {
	source  string
	element rules.Element
}

// elementsFromLua converts a hook's return value into rule elements.
// nil yields no elements; anything but an array of tables is an error.
func elementsFromLua(v lua.LValue) ([]scriptElement, error) {
	if v == lua.LNil {
		return nil, nil
	}
	arr, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("rule_elements must return a table, got %s", v.Type())
	}
	var out []scriptElement
	var err error
	arr.ForEach(func(k, entry lua.LValue) {
		if err != nil {
			return
		}
		tbl, ok := entry.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("element %v: expected table, got %s", k, entry.Type())
			return
		}
		out = append(out, scriptElement{source: str(tbl, "item"), element: elementFromTable(tbl)})
	})
	return out, err
}

func elementFromTable(t *lua.LTable) rules.Element {
	e := rules.Element{
		Key:        str(t, "key"),
		Selector:   str(t, "selector"),
		Label:      str(t, "label"),
		Value:      num(t, "value"),
		Type:       str(t, "type"),
		Text:       str(t, "text"),
		DiceNumber: num(t, "dice_number"),
		DieSize:    str(t, "die_size"),
		DamageType: str(t, "damage_type"),
		Override:   lua.LVAsBool(t.RawGetString("override")),
		Ignored:    lua.LVAsBool(t.RawGetString("ignored")),
	}
	if outcome, ok := t.RawGetString("outcome").(*lua.LTable); ok {
		outcome.ForEach(func(_, v lua.LValue) {
			e.Outcome = append(e.Outcome, v.String())
		})
	}
	return e
}

func str(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func num(t *lua.LTable, key string) int {
	switch v := t.RawGetString(key).(type) {
	case lua.LNumber:
		return int(v)
	case lua.LString:
		return int(lua.LVAsNumber(v))
	}
	return 0
}
