package report

import "github.com/a3tai/drawing-checker/internal/checker"

// CheckItem is one rule as listed to users
type CheckItem struct {
	Name       string             `json:"name" yaml:"name"`
	Importance checker.Importance `json:"importance" yaml:"importance"`
}

// CategoryItems lists the items a checker verifies
type CategoryItems struct {
	Name  string      `json:"name" yaml:"name"`
	Items []CheckItem `json:"items" yaml:"items"`
}

// Catalog lists the check items of every checker in registration order,
// read from the checkers' own rule tables.
func Catalog(checkers []checker.Checker) []CategoryItems {
	catalog := make([]CategoryItems, 0, len(checkers))
	for _, c := range checkers {
		rules := c.Rules()
		items := make([]CheckItem, 0, len(rules))
		for _, rule := range rules {
			items = append(items, CheckItem{
				Name:       rule.Item(),
				Importance: rule.Importance(),
			})
		}
		catalog = append(catalog, CategoryItems{Name: c.Category(), Items: items})
	}
	return catalog
}
