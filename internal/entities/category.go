package entities

import (
	"errors"
	"fmt"
)

var ErrUnknownCategory = errors.New("unknown category")

type Category string

const (
	CategoryBhakti    Category = "bhakti"
	CategoryStotra    Category = "stotra"
	CategoryMantra    Category = "mantra"
	CategorySloka     Category = "sloka"
	CategoryPrayer    Category = "prayer"
	CategoryScripture Category = "scripture"
)

type CategoryInfo struct {
	ID          Category `json:"id"`
	Name        string   `json:"name"`
	NativeName  string   `json:"native_name"`
	Description string   `json:"description"`
}

// Categories lists every category in display order.
var Categories = []CategoryInfo{
	{ID: CategoryBhakti, Name: "Bhakti", NativeName: "भक्ति", Description: "Devotional hymns and prayers"},
	{ID: CategoryStotra, Name: "Stotra", NativeName: "स्तोत्र", Description: "Hymns of praise"},
	{ID: CategoryMantra, Name: "Mantra", NativeName: "मन्त्र", Description: "Sacred chants and mantras"},
	{ID: CategorySloka, Name: "Sloka", NativeName: "श्लोक", Description: "Verses from scriptures"},
	{ID: CategoryPrayer, Name: "Prayer", NativeName: "प्रार्थना", Description: "Daily prayers and rituals"},
	{ID: CategoryScripture, Name: "Scripture", NativeName: "शास्त्र", Description: "Sacred texts and scriptures"},
}

func (c Category) Valid() bool {
	_, err := CategoryInfoFor(c)
	return err == nil
}

func CategoryInfoFor(c Category) (CategoryInfo, error) {
	for _, info := range Categories {
		if info.ID == c {
			return info, nil
		}
	}
	return CategoryInfo{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
}
