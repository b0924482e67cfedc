package category

import "github.com/grana-app/grana/internal/model"

// Taxonomy returns the immutable system category table. Callers get a fresh
// copy; layering user-defined entries on top goes through Merge.
func Taxonomy() []model.Category {
	return []model.Category{
		{Name: "Alimentação", Icon: "🍔", Color: "#FF6B6B", Type: model.TypeExpense},
		{Name: "Transporte", Icon: "🚗", Color: "#4ECDC4", Type: model.TypeExpense},
		{Name: "Moradia", Icon: "🏠", Color: "#95E1D3", Type: model.TypeExpense},
		{Name: "Saúde", Icon: "💊", Color: "#F38181", Type: model.TypeExpense},
		{Name: "Lazer", Icon: "🎬", Color: "#AA96DA", Type: model.TypeExpense},
		{Name: "Educação", Icon: "📚", Color: "#FCBAD3", Type: model.TypeExpense},
		{Name: "Compras", Icon: "🛍️", Color: "#FFFFD2", Type: model.TypeExpense},
		{Name: "Serviços", Icon: "🔧", Color: "#A8D8EA", Type: model.TypeExpense},
		{Name: "Outros", Icon: "📦", Color: "#CCCCCC", Type: model.TypeExpense},
		{Name: "Salário", Icon: "💰", Color: "#6BCB77", Type: model.TypeIncome},
		{Name: "Investimentos", Icon: "📈", Color: "#4D96FF", Type: model.TypeIncome},
		{Name: "Outros", Icon: "📦", Color: "#CCCCCC", Type: model.TypeIncome},
	}
}

// Merge layers custom categories over the system taxonomy. Entries collide on
// the (normalized name, type) key; a custom entry never shadows a system one,
// and duplicate customs keep the first occurrence.
func Merge(system, custom []model.Category) []model.Category {
	type key struct {
		name string
		typ  model.TransactionType
	}

	merged := make([]model.Category, 0, len(system)+len(custom))
	seen := make(map[key]struct{}, len(system)+len(custom))

	for _, c := range system {
		k := key{Normalize(c.Name), c.Type}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range custom {
		k := key{Normalize(c.Name), c.Type}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		c.IsCustom = true
		merged = append(merged, c)
	}
	return merged
}

// Names returns the distinct category names of the merged taxonomy, in table
// order. Used to constrain the AI extraction prompt.
func Names(categories []model.Category) []string {
	seen := make(map[string]struct{}, len(categories))
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		names = append(names, c.Name)
	}
	return names
}
