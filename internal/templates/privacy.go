package templates

import (
	"fmt"
	"strings"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

const (
	h2Style = "font-size:1.2em;margin-top:24px;margin-bottom:12px;border-bottom:1px solid #ddd;padding-bottom:8px;"
	pStyle  = "margin-bottom:12px;line-height:1.8;"
	ulStyle = "margin-bottom:12px;padding-left:24px;line-height:1.8;"
	olStyle = "margin-bottom:12px;padding-left:24px;line-height:1.8;"
)

// Privacy renders a プライバシーポリシー page.
func Privacy(form *validation.PrivacyForm) string {
	var b strings.Builder

	h2 := func(text string) {
		fmt.Fprintf(&b, "\n  <h2 style=%q>%s</h2>\n", h2Style, text)
	}
	p := func(inner string) {
		fmt.Fprintf(&b, "  <p style=%q>%s</p>\n", pStyle, inner)
	}
	list := func(options []validation.Option, values []string, other string) {
		fmt.Fprintf(&b, "  <ul style=%q>\n", ulStyle)
		for _, v := range values {
			fmt.Fprintf(&b, "    <li>%s</li>\n", Escape(validation.LabelFor(options, v)))
		}
		if other != "" {
			fmt.Fprintf(&b, "    <li>%s</li>\n", Escape(other))
		}
		b.WriteString("  </ul>\n")
	}

	b.WriteString(`<div style="max-width:800px;margin:0 auto;">` + "\n")
	b.WriteString(`  <h1 style="font-size:1.5em;margin-bottom:20px;">プライバシーポリシー</h1>` + "\n\n")

	p(Escape(form.BusinessName) + "（以下「当社」といいます）は、お客様の個人情報の保護を重要な責務と考え、以下のとおりプライバシーポリシーを定め、個人情報の適切な管理・保護に努めます。")

	h2("1. 収集する個人情報")
	p("当社は、以下の個人情報を収集することがあります。")
	list(validation.CollectedInfoOptions, form.CollectedInfo, form.CollectedInfoOther)

	h2("2. 個人情報の利用目的")
	p("収集した個人情報は、以下の目的で利用いたします。")
	list(validation.PurposeOfUseOptions, form.PurposeOfUse, form.PurposeOfUseOther)

	h2("3. 個人情報の第三者提供")
	p(thirdPartySharingText(form.ThirdPartySharing, form.ThirdPartySharingDetail))

	if form.UseCookies == "yes" {
		h2("Cookieの使用について")
		detail := "ブラウザの設定でCookieを無効にすることも可能ですが、一部のサービスが正常に利用できなくなる場合があります。"
		if form.CookieDetail != "" {
			detail = NlToBr(form.CookieDetail)
		}
		p("当サイトでは、ユーザー体験の向上のためCookieを使用しています。" + detail)
	}

	if form.UseAnalytics == "yes" {
		h2("アクセス解析ツールについて")
		tools := "アクセス解析ツール"
		if form.AnalyticsTools != "" {
			tools = Escape(form.AnalyticsTools)
		}
		p("当サイトでは、" + tools + "を使用しています。これらのツールはトラフィックデータの収集のためにCookieを使用しています。このデータは匿名で収集されており、個人を特定するものではありません。")
	}

	h2("4. 個人情報の保存期間")
	p(NlToBr(form.RetentionPeriod))

	h2("5. セキュリティ対策")
	p(NlToBr(form.SecurityMeasures))

	h2("6. お客様の権利")
	p("お客様は、当社が保有するご自身の個人情報について、開示・訂正・削除・利用停止を請求する権利を有します。ご請求の際は、下記のお問い合わせ先までご連絡ください。")

	h2("7. プライバシーポリシーの変更")
	p("当社は、必要に応じて本プライバシーポリシーを変更することがあります。変更した場合は、当サイトにてお知らせいたします。")

	h2("8. お問い合わせ")
	p("個人情報の取り扱いに関するお問い合わせは、以下までご連絡ください。")
	p(Escape(form.BusinessName) + "<br>" +
		"代表者: " + Escape(form.RepresentativeName) + "<br>" +
		"所在地: " + Escape(form.Address) + "<br>" +
		"メール: " + Escape(form.Email) + "<br>" +
		"URL: " + Escape(form.SiteURL))
	p("お問い合わせ方法: " + NlToBr(form.ContactMethod))

	b.WriteString("</div>")
	return Clean(b.String())
}

func thirdPartySharingText(kind, detail string) string {
	switch kind {
	case "with_consent":
		return "当社は、お客様の同意を得た場合、および法令に基づく場合に限り、個人情報を第三者に提供することがあります。"
	case "partial":
		if detail != "" {
			return NlToBr(detail)
		}
		return "当社は、業務委託先に対して必要な範囲で個人情報を提供する場合があります。その際、委託先との間で適切な契約を締結し、個人情報の管理を徹底いたします。"
	default:
		return "当社は、法令に基づく場合を除き、お客様の個人情報を第三者に提供することはありません。"
	}
}
