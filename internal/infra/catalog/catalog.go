package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type planFile struct {
	Plans []planEntry `yaml:"plans"`
}

type planEntry struct {
	domain.Plan `yaml:",inline"`
	Discount    string `yaml:"discount"`
}

// Catalog é o catálogo de planos lido de um YAML.
// Sem arquivo, usa a escada padrão de naipes.
type Catalog struct {
	path string

	mu    sync.RWMutex
	plans []domain.Plan
}

// Load lê o catálogo; path vazio ou inexistente resulta no catálogo padrão.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload relê o arquivo. Em caso de erro o catálogo atual é mantido.
func (c *Catalog) Reload() error {
	plans, err := readPlans(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.plans = plans
	c.mu.Unlock()
	return nil
}

func (c *Catalog) List() []domain.Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Get busca pelo nome, sem diferenciar maiúsculas.
func (c *Catalog) Get(name string) (domain.Plan, error) {
	needle := strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.plans {
		if strings.EqualFold(p.Name, needle) {
			return p, nil
		}
	}
	return domain.Plan{}, fmt.Errorf("%w: %q", domain.ErrPlanNotFound, name)
}

func readPlans(path string) ([]domain.Plan, error) {
	if path == "" {
		return DefaultPlans(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultPlans(), nil
		}
		return nil, fmt.Errorf("read plan catalog: %w", err)
	}

	var file planFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse plan catalog %s: %w", path, err)
	}
	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog %s has no plans", path)
	}

	plans := make([]domain.Plan, 0, len(file.Plans))
	seen := make(map[string]bool, len(file.Plans))
	for _, entry := range file.Plans {
		p := entry.Plan
		p.Name = strings.TrimSpace(p.Name)
		key := strings.ToLower(p.Name)
		if p.Name == "" || seen[key] {
			return nil, fmt.Errorf("plan catalog %s: empty or duplicated plan name %q", path, p.Name)
		}
		seen[key] = true
		if p.Price < 0 {
			return nil, fmt.Errorf("plan %q: negative price", p.Name)
		}
		p.Discount = decimal.Zero
		if entry.Discount != "" {
			pct, err := decimal.NewFromString(entry.Discount)
			if err != nil {
				return nil, fmt.Errorf("plan %q: invalid discount %q: %w", p.Name, entry.Discount, err)
			}
			p.Discount = pct
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// DefaultPlans é a escada Pré-Pago, Rainhas e Reis; os Reis têm os maiores descontos.
func DefaultPlans() []domain.Plan {
	ladder := []struct {
		name     string
		price    int64
		discount int64
	}{
		{"Pré-Pago", 5000, 0},
		{"Rainha de Ouros", 10000, 5},
		{"Rainha de Paus", 15000, 10},
		{"Rainha de Copas", 20000, 15},
		{"Rainha de Espadas", 25000, 20},
		{"Rei de Ouros", 30000, 25},
		{"Rei de Paus", 40000, 30},
		{"Rei de Copas", 50000, 35},
		{"Rei de Espadas", 75000, 50},
	}
	plans := make([]domain.Plan, 0, len(ladder))
	for _, l := range ladder {
		plans = append(plans, domain.Plan{
			Name:          l.name,
			Price:         l.price,
			BillingPeriod: "mensal",
			Discount:      decimal.NewFromInt(l.discount),
		})
	}
	return plans
}
