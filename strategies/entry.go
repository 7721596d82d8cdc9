package strategies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gxquant/screener/indicators"
	"github.com/gxquant/screener/market"
)

// EntryRule decides whether to open a long position. Update is called on
// every valid bar so stateful rules can warm up; Enter is consulted only
// while the engine is flat.
type EntryRule interface {
	Name() string
	Reset()
	Update(b market.Bar)
	Enter() bool
}

type entryFactory func(p Params) EntryRule

var entryRegistry = map[string]entryFactory{
	"always": func(Params) EntryRule { return AlwaysEnter{} },
	"ma-cross": func(p Params) EntryRule {
		return NewMACross(p.ShortPeriod, p.LongPeriod)
	},
}

func lookupEntry(name string) (entryFactory, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "always"
	}
	f, ok := entryRegistry[key]
	if !ok {
		return nil, fmt.Errorf("unknown entry rule %q (supported: %s)",
			name, strings.Join(EntryRuleNames(), ", "))
	}
	return f, nil
}

// NewEntryRule builds the entry rule named by p.Entry.
func NewEntryRule(p Params) (EntryRule, error) {
	f, err := lookupEntry(p.Entry)
	if err != nil {
		return nil, err
	}
	return f(p), nil
}

// EntryRuleNames lists the registered rule names, sorted.
func EntryRuleNames() []string {
	names := make([]string, 0, len(entryRegistry))
	for name := range entryRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AlwaysEnter opens a position on the first bar seen while flat.
type AlwaysEnter struct{}

func (AlwaysEnter) Name() string        { return "always" }
func (AlwaysEnter) Reset()              {}
func (AlwaysEnter) Update(_ market.Bar) {}
func (AlwaysEnter) Enter() bool         { return true }

// MACross enters when the short moving average is above the long one.
type MACross struct {
	short *indicators.SMA
	long  *indicators.SMA
}

func NewMACross(shortPeriod, longPeriod int) *MACross {
	return &MACross{
		short: indicators.NewSMA(shortPeriod),
		long:  indicators.NewSMA(longPeriod),
	}
}

func (m *MACross) Name() string {
	return fmt.Sprintf("ma-cross(%s,%s)", m.short.Name(), m.long.Name())
}

func (m *MACross) Reset() {
	m.short.Reset()
	m.long.Reset()
}

func (m *MACross) Update(b market.Bar) {
	m.short.Update(b)
	m.long.Update(b)
}

func (m *MACross) Enter() bool {
	if !m.short.Ready() || !m.long.Ready() {
		return false
	}
	return m.short.Value() > m.long.Value()
}
