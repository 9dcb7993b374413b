package templates

import (
	"fmt"
	"strings"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

const (
	returnTableStyle = "width:100%;border-collapse:collapse;margin-bottom:20px;"
	returnTHStyle    = "text-align:left;padding:10px 12px;border:1px solid #ddd;background:#f8f8f8;width:30%;vertical-align:top;font-weight:600;"
	returnTDStyle    = "padding:10px 12px;border:1px solid #ddd;vertical-align:top;"
)

// ReturnPolicy renders a 返品・交換ポリシー page.
func ReturnPolicy(form *validation.ReturnForm) string {
	var b strings.Builder

	h2 := func(text string) {
		fmt.Fprintf(&b, "\n  <h2 style=%q>%s</h2>\n", h2Style, text)
	}
	p := func(inner string) {
		fmt.Fprintf(&b, "  <p style=%q>%s</p>\n", pStyle, inner)
	}
	row := func(label, value string) {
		fmt.Fprintf(&b, "    <tr>\n      <th style=%q>%s</th>\n      <td style=%q>%s</td>\n    </tr>\n",
			returnTHStyle, label, returnTDStyle, value)
	}

	noReturns := form.ReturnCondition == "no_returns"

	b.WriteString(`<div style="max-width:800px;margin:0 auto;">` + "\n")
	b.WriteString(`  <h1 style="font-size:1.5em;margin-bottom:20px;">返品・交換ポリシー</h1>` + "\n\n")

	p(Escape(form.BusinessName) + "（以下「当店」といいます）では、お客様に安心してお買い物いただけるよう、以下の返品・交換ポリシーを定めております。")

	h2("返品・交換の条件")
	fmt.Fprintf(&b, "  <table style=%q>\n", returnTableStyle)
	if !noReturns && form.ReturnDeadline != "" {
		row("返品期限", Escape(form.ReturnDeadline))
	}
	row("返品条件", Escape(validation.LabelFor(validation.ReturnConditionOptions, form.ReturnCondition)))
	row("返送料", Escape(validation.LabelFor(validation.ShippingCostOptions, form.ShippingCost)))
	row("交換対応", Escape(validation.LabelFor(validation.ExchangeOptions, form.ExchangePolicy)))
	b.WriteString("  </table>\n")

	if !noReturns {
		h2("返金について")
		fmt.Fprintf(&b, "  <table style=%q>\n", returnTableStyle)
		row("返金方法", Escape(validation.LabelFor(validation.RefundMethodOptions, form.RefundMethod)))
		row("返金タイミング", Escape(form.RefundTiming))
		b.WriteString("  </table>\n")

		h2("不良品について")
		p(NlToBr(form.DefectiveHandling))

		h2("返品・交換の手順")
		p(NlToBr(form.ReturnProcess))
	}

	if form.NonReturnableItems != "" {
		h2("返品・交換をお受けできない場合")
		p(NlToBr(form.NonReturnableItems))
	}

	h2("お問い合わせ")
	p("返品・交換に関するお問い合わせは、以下までご連絡ください。")
	p(Escape(form.BusinessName) + "<br>" +
		"メール: " + Escape(form.Email) + "<br>" +
		"電話: " + Escape(form.Phone) + "<br>" +
		"URL: " + Escape(form.SiteURL))
	p("お問い合わせ方法: " + NlToBr(form.ContactMethod))

	b.WriteString("</div>")
	return Clean(b.String())
}
