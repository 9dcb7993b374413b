package templates

import (
	"fmt"
	"strings"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// Terms renders a 利用規約 page.
func Terms(form *validation.TermsForm) string {
	var b strings.Builder

	h2 := func(text string) {
		fmt.Fprintf(&b, "\n  <h2 style=%q>%s</h2>\n", h2Style, text)
	}
	p := func(inner string) {
		fmt.Fprintf(&b, "  <p style=%q>%s</p>\n", pStyle, inner)
	}

	jurisdiction := Escape(validation.LabelFor(validation.JurisdictionOptions, form.Jurisdiction))
	if form.Jurisdiction == "other" && form.JurisdictionOther != "" {
		jurisdiction = Escape(form.JurisdictionOther)
	}

	b.WriteString(`<div style="max-width:800px;margin:0 auto;">` + "\n")
	b.WriteString(`  <h1 style="font-size:1.5em;margin-bottom:20px;">利用規約</h1>` + "\n\n")

	p("この利用規約（以下「本規約」といいます）は、" + Escape(form.BusinessName) +
		"（以下「当社」といいます）が提供する" + Escape(form.ServiceName) +
		"（以下「本サービス」といいます）の利用条件を定めるものです。ユーザーの皆さまには、本規約に同意いただいた上で、本サービスをご利用いただきます。")

	h2("第1条（適用）")
	p("本規約は、ユーザーと当社との間の本サービスの利用に関わる一切の関係に適用されるものとします。")

	h2("第2条（利用登録）")
	p(NlToBr(form.RegistrationRequirement))

	h2("第3条（禁止事項）")
	p("ユーザーは、本サービスの利用にあたり、以下の行為をしてはなりません。")
	fmt.Fprintf(&b, "  <ol style=%q>\n", olStyle)
	for _, v := range form.ProhibitedActions {
		fmt.Fprintf(&b, "    <li>%s</li>\n", Escape(validation.LabelFor(validation.ProhibitedActionsOptions, v)))
	}
	if form.ProhibitedActionsOther != "" {
		fmt.Fprintf(&b, "    <li>%s</li>\n", Escape(form.ProhibitedActionsOther))
	}
	b.WriteString("  </ol>\n")

	h2("第4条（知的財産権）")
	p(NlToBr(form.IntellectualProperty))

	h2("第5条（免責事項）")
	p(NlToBr(form.Disclaimer))

	h2("第6条（サービスの中断・停止）")
	p(NlToBr(form.ServiceInterruption))

	h2("第7条（規約の変更）")
	p(NlToBr(form.TermsChangePolicy))

	h2("第8条（準拠法・裁判管轄）")
	p("本規約の解釈にあたっては、日本法を準拠法とします。本サービスに関して紛争が生じた場合には、" + jurisdiction + "を第一審の専属的合意管轄裁判所とします。")

	h2("第9条（お問い合わせ）")
	p("本規約に関するお問い合わせは、以下までご連絡ください。")
	p(Escape(form.BusinessName) + "<br>" +
		"サービス名: " + Escape(form.ServiceName) + "<br>" +
		"メール: " + Escape(form.Email) + "<br>" +
		"URL: " + Escape(form.SiteURL))
	p("お問い合わせ方法: " + NlToBr(form.ContactMethod))

	b.WriteString("</div>")
	return Clean(b.String())
}
