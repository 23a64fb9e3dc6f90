package links

import (
	"github.com/dougwollison/index-pages/internal/content"
)

// Menu item classes added for the current index page
const (
	ClassCurrentPageParent = "current_page_parent"
	ClassCurrentMenuItem   = "current-menu-item"
)

// MenuItem is a navigation menu entry
type MenuItem struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Object   string   `json:"object"`
	ObjectID int      `json:"object_id"`
	Classes  []string `json:"classes,omitempty"`
}

// MarkMenuItems marks the menu items that link to the current index page.
// On singular views the page is the parent of what is shown; otherwise it
// is the current item.
func MarkMenuItems(items []MenuItem, current int, singular bool) []MenuItem {
	if current <= 0 {
		return items
	}

	class := ClassCurrentMenuItem
	if singular {
		class = ClassCurrentPageParent
	}

	for i := range items {
		if items[i].Object == content.PostTypePage && items[i].ObjectID == current {
			items[i].Classes = append(items[i].Classes, class)
		}
	}
	return items
}
