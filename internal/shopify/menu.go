package shopify

import (
	"context"
	"strings"
)

// MenuItem is one entry of a storefront navigation menu.
type MenuItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        *string `json:"url"`
	ResourceID *string `json:"resourceId"`
	Type       string  `json:"type"`
}

// Menu is a storefront navigation menu.
type Menu struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Handle string     `json:"handle"`
	Items  []MenuItem `json:"items"`
}

const menusQuery = `
query getMenus {
  menus(first: 50) {
    nodes {
      id
      title
      handle
      items(first: 100) {
        id
        title
        url
        resourceId
        type
      }
    }
  }
}`

const menuQuery = `
query getMenu($id: ID!) {
  menu(id: $id) {
    id
    items(first: 100) {
      id
      title
      url
      type
    }
  }
}`

const menuUpdateMutation = `
mutation menuUpdate($id: ID!, $items: [MenuItemUpdateInput!]!) {
  menuUpdate(id: $id, items: $items) {
    menu {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

// GetMenus returns the store's navigation menus.
func (c *AdminClient) GetMenus(ctx context.Context) ([]Menu, error) {
	var out struct {
		Menus struct {
			Nodes []Menu `json:"nodes"`
		} `json:"menus"`
	}
	if err := c.query(ctx, menusQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.Menus.Nodes, nil
}

// HasPageInMenu reports whether pageURL already appears among items,
// ignoring trailing slashes.
func HasPageInMenu(items []MenuItem, pageURL string) bool {
	want := strings.TrimSuffix(pageURL, "/")
	for _, item := range items {
		if item.URL == nil {
			continue
		}
		if strings.TrimSuffix(*item.URL, "/") == want {
			return true
		}
	}
	return false
}

// AddPageToMenu appends a link to the menu unless one for pageURL already
// exists. The menu items are fetched fresh and re-submitted whole, since
// menuUpdate replaces the item list.
func (c *AdminClient) AddPageToMenu(ctx context.Context, menuID, pageTitle, pageURL string) error {
	var menuOut struct {
		Menu *struct {
			ID    string     `json:"id"`
			Items []MenuItem `json:"items"`
		} `json:"menu"`
	}
	if err := c.query(ctx, menuQuery, map[string]any{"id": menuID}, &menuOut); err != nil {
		return err
	}

	var existing []MenuItem
	if menuOut.Menu != nil {
		existing = menuOut.Menu.Items
	}
	if HasPageInMenu(existing, pageURL) {
		return nil
	}

	items := make([]map[string]any, 0, len(existing)+1)
	for _, item := range existing {
		url := ""
		if item.URL != nil {
			url = *item.URL
		}
		items = append(items, map[string]any{
			"title": item.Title,
			"url":   url,
			"type":  item.Type,
		})
	}
	items = append(items, map[string]any{
		"title": pageTitle,
		"url":   pageURL,
		"type":  "HTTP",
	})

	var out struct {
		MenuUpdate struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"menuUpdate"`
	}
	if err := c.query(ctx, menuUpdateMutation, map[string]any{"id": menuID, "items": items}, &out); err != nil {
		return err
	}
	if len(out.MenuUpdate.UserErrors) > 0 {
		return newUserError("メニューの更新に失敗しました", out.MenuUpdate.UserErrors)
	}
	return nil
}
