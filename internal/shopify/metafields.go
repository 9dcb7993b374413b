package shopify

import (
	"context"
	"strconv"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// ConfirmationNamespace is the metafield namespace for checkout
// confirmation-block settings. A regular namespace (not $app:) so Liquid
// can read it via shop.metafields["marutto_confirmation"].
const ConfirmationNamespace = "marutto_confirmation"

// Metafield keys within ConfirmationNamespace.
const (
	keyEnabled          = "enabled"
	keyQuantityText     = "quantity_text"
	keyPriceText        = "price_text"
	keyPaymentText      = "payment_text"
	keyDeliveryText     = "delivery_text"
	keyCancellationText = "cancellation_text"
	keyPeriodText       = "period_text"
	keyCheckboxLabel    = "checkbox_label"
)

var confirmationKeys = []string{
	keyEnabled, keyQuantityText, keyPriceText, keyPaymentText,
	keyDeliveryText, keyCancellationText, keyPeriodText, keyCheckboxLabel,
}

const shopIDQuery = `
query shopId {
  shop {
    id
  }
}`

const metafieldsSetMutation = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
      namespace
      key
    }
    userErrors {
      field
      message
    }
  }
}`

const shopMetafieldsQuery = `
query getShopMetafields($namespace: String!, $keys: [String!]!) {
  shop {
    metafields(namespace: $namespace, keys: $keys, first: 10) {
      edges {
        node {
          key
          value
        }
      }
    }
  }
}`

// shopGID resolves the shop's full GID (gid://shopify/Shop/...), required as
// ownerId for metafieldsSet.
func (c *AdminClient) shopGID(ctx context.Context) (string, error) {
	var out struct {
		Shop struct {
			ID string `json:"id"`
		} `json:"shop"`
	}
	if err := c.query(ctx, shopIDQuery, nil, &out); err != nil {
		return "", err
	}
	if out.Shop.ID == "" {
		return "", &APIError{Message: "Shop ID を取得できませんでした"}
	}
	return out.Shop.ID, nil
}

// SaveConfirmationMetafields writes the confirmation settings onto the Shop
// resource.
func (c *AdminClient) SaveConfirmationMetafields(ctx context.Context, form *validation.ConfirmationForm) error {
	gid, err := c.shopGID(ctx)
	if err != nil {
		return err
	}

	field := func(key, fieldType, value string) map[string]any {
		return map[string]any{
			"ownerId":   gid,
			"namespace": ConfirmationNamespace,
			"key":       key,
			"type":      fieldType,
			"value":     value,
		}
	}
	metafields := []map[string]any{
		field(keyEnabled, "boolean", strconv.FormatBool(form.Enabled)),
		field(keyQuantityText, "single_line_text_field", form.QuantityText),
		field(keyPriceText, "multi_line_text_field", form.PriceText),
		field(keyPaymentText, "multi_line_text_field", form.PaymentText),
		field(keyDeliveryText, "multi_line_text_field", form.DeliveryText),
		field(keyCancellationText, "multi_line_text_field", form.CancellationText),
		field(keyPeriodText, "single_line_text_field", form.PeriodText),
		field(keyCheckboxLabel, "single_line_text_field", form.CheckboxLabel),
	}

	var out struct {
		MetafieldsSet struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := c.query(ctx, metafieldsSetMutation, map[string]any{"metafields": metafields}, &out); err != nil {
		return err
	}
	if len(out.MetafieldsSet.UserErrors) > 0 {
		return newUserError("メタフィールドの保存に失敗しました", out.MetafieldsSet.UserErrors)
	}
	return nil
}

// GetConfirmationMetafields reads the confirmation settings from the Shop
// resource, falling back to defaults for fields never saved.
func (c *AdminClient) GetConfirmationMetafields(ctx context.Context) (*validation.ConfirmationForm, error) {
	var out struct {
		Shop struct {
			Metafields struct {
				Edges []struct {
					Node struct {
						Key   string `json:"key"`
						Value string `json:"value"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"metafields"`
		} `json:"shop"`
	}
	err := c.query(ctx, shopMetafieldsQuery, map[string]any{
		"namespace": ConfirmationNamespace,
		"keys":      confirmationKeys,
	}, &out)
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	for _, e := range out.Shop.Metafields.Edges {
		values[e.Node.Key] = e.Node.Value
	}

	form := validation.ConfirmationDefaults()
	form.Enabled = values[keyEnabled] == "true"
	pick := func(key string, dst *string) {
		if v, ok := values[key]; ok && v != "" {
			*dst = v
		}
	}
	pick(keyQuantityText, &form.QuantityText)
	pick(keyPriceText, &form.PriceText)
	pick(keyPaymentText, &form.PaymentText)
	pick(keyDeliveryText, &form.DeliveryText)
	pick(keyCancellationText, &form.CancellationText)
	pick(keyPeriodText, &form.PeriodText)
	pick(keyCheckboxLabel, &form.CheckboxLabel)
	return &form, nil
}
