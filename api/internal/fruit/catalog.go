package fruit

import "strings"

// CatalogEntry: справочные данные по фрукту.
type CatalogEntry struct {
	ID           string
	Name         string
	Emoji        string
	AvgSweetness int
	Aliases      []string
}

var Catalog = []CatalogEntry{
	{"apple", "Apple", "🍎", 70, []string{"apple", "red apple", "green apple", "malus"}},
	{"banana", "Banana", "🍌", 75, []string{"banana", "plantain"}},
	{"orange", "Orange", "🍊", 70, []string{"orange", "citrus", "mandarin"}},
	{"grape", "Grape", "🍇", 85, []string{"grape", "grapes", "vine fruit"}},
	{"strawberry", "Strawberry", "🍓", 65, []string{"strawberry", "berry"}},
	{"watermelon", "Watermelon", "🍉", 65, []string{"watermelon", "melon"}},
	{"pineapple", "Pineapple", "🍍", 75, []string{"pineapple", "ananas"}},
	{"mango", "Mango", "🥭", 85, []string{"mango", "tropical fruit"}},
	{"kiwi", "Kiwi", "🥝", 60, []string{"kiwi", "kiwifruit", "chinese gooseberry"}},
	{"peach", "Peach", "🍑", 75, []string{"peach", "nectarine"}},
	{"pear", "Pear", "🍐", 70, []string{"pear", "asian pear"}},
	{"cherry", "Cherry", "🍒", 80, []string{"cherry", "cherries"}},
	{"blueberry", "Blueberry", "🫐", 60, []string{"blueberry", "blueberries", "berry"}},
	{"lemon", "Lemon", "🍋", 20, []string{"lemon", "citrus"}},
	{"lime", "Lime", "🍋‍🟩", 15, []string{"lime", "citrus"}},
	{"coconut", "Coconut", "🥥", 50, []string{"coconut", "coco"}},
	{"avocado", "Avocado", "🥑", 10, []string{"avocado"}},
	{"tomato", "Tomato", "🍅", 40, []string{"tomato", "tomatoes"}},
}

// Lookup ищет по id, имени или вхождению имени в один из алиасов.
// Порядок каталога важен: «berry» находит клубнику раньше черники.
func Lookup(name string) (CatalogEntry, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return CatalogEntry{}, false
	}
	for _, f := range Catalog {
		if f.ID == q || strings.ToLower(f.Name) == q {
			return f, true
		}
		for _, a := range f.Aliases {
			if strings.Contains(strings.ToLower(a), q) {
				return f, true
			}
		}
	}
	return CatalogEntry{}, false
}

func SweetnessEmoji(score float64) string {
	switch {
	case score <= 20:
		return "😞"
	case score <= 40:
		return "😐"
	case score <= 60:
		return "🙂"
	case score <= 80:
		return "😋"
	default:
		return "🤩"
	}
}

func SweetnessLabel(score float64) string {
	switch {
	case score <= 20:
		return "Not Sweet"
	case score <= 40:
		return "Slightly Sweet"
	case score <= 60:
		return "Moderately Sweet"
	case score <= 80:
		return "Sweet"
	default:
		return "Very Sweet"
	}
}
