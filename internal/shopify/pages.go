package shopify

import "context"

// Page is the remote page as reported by the Admin API.
type Page struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	IsPublished bool   `json:"isPublished"`
}

// CreatePageInput describes a page to create remotely.
type CreatePageInput struct {
	Title     string
	Handle    string
	BodyHTML  string
	Published bool
}

// UpdatePageInput carries the fields to change on an existing remote page.
// Nil fields are left untouched.
type UpdatePageInput struct {
	Title     *string
	BodyHTML  *string
	Published *bool
}

// CreatePageResult identifies the page that was created.
type CreatePageResult struct {
	PageID string
	Handle string
}

// PageAPI is the remote-pages surface the services depend on. The concrete
// implementation is AdminClient; tests substitute fakes.
type PageAPI interface {
	// CreatePage creates a remote page and returns its ID and handle.
	CreatePage(ctx context.Context, input CreatePageInput) (*CreatePageResult, error)
	// UpdatePage updates an existing remote page.
	UpdatePage(ctx context.Context, pageID string, input UpdatePageInput) error
	// GetPage fetches a remote page. A deleted page yields (nil, nil):
	// absence is an answer, not an error.
	GetPage(ctx context.Context, pageID string) (*Page, error)
}

const pageCreateMutation = `
mutation pageCreate($page: PageCreateInput!) {
  pageCreate(page: $page) {
    page {
      id
      handle
    }
    userErrors {
      field
      message
    }
  }
}`

const pageUpdateMutation = `
mutation pageUpdate($id: ID!, $page: PageUpdateInput!) {
  pageUpdate(id: $id, page: $page) {
    page {
      id
      handle
    }
    userErrors {
      field
      message
    }
  }
}`

const pageQuery = `
query getPage($id: ID!) {
  page(id: $id) {
    id
    title
    handle
    isPublished
  }
}`

type pageMutationPayload struct {
	Page       *Page       `json:"page"`
	UserErrors []UserError `json:"userErrors"`
}

// CreatePage creates a page in the merchant's store.
func (c *AdminClient) CreatePage(ctx context.Context, input CreatePageInput) (*CreatePageResult, error) {
	page := map[string]any{
		"title":       input.Title,
		"body":        input.BodyHTML,
		"isPublished": input.Published,
	}
	if input.Handle != "" {
		page["handle"] = input.Handle
	}

	var out struct {
		PageCreate pageMutationPayload `json:"pageCreate"`
	}
	err := c.query(ctx, pageCreateMutation, map[string]any{"page": page}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.PageCreate.UserErrors) > 0 {
		return nil, newUserError("ページの作成に失敗しました", out.PageCreate.UserErrors)
	}
	if out.PageCreate.Page == nil {
		return nil, &APIError{Message: "ページの作成に失敗しました。"}
	}
	return &CreatePageResult{
		PageID: out.PageCreate.Page.ID,
		Handle: out.PageCreate.Page.Handle,
	}, nil
}

// UpdatePage applies input to the remote page identified by pageID.
func (c *AdminClient) UpdatePage(ctx context.Context, pageID string, input UpdatePageInput) error {
	page := map[string]any{}
	if input.Title != nil {
		page["title"] = *input.Title
	}
	if input.BodyHTML != nil {
		page["body"] = *input.BodyHTML
	}
	if input.Published != nil {
		page["isPublished"] = *input.Published
	}

	var out struct {
		PageUpdate pageMutationPayload `json:"pageUpdate"`
	}
	err := c.query(ctx, pageUpdateMutation, map[string]any{"id": pageID, "page": page}, &out)
	if err != nil {
		return err
	}
	if len(out.PageUpdate.UserErrors) > 0 {
		return newUserError("ページの更新に失敗しました", out.PageUpdate.UserErrors)
	}
	return nil
}

// GetPage fetches the remote page, or (nil, nil) when it no longer exists.
func (c *AdminClient) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var out struct {
		Page *Page `json:"page"`
	}
	if err := c.query(ctx, pageQuery, map[string]any{"id": pageID}, &out); err != nil {
		return nil, err
	}
	return out.Page, nil
}
