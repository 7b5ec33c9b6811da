// Package templates holds the judiciary document templates offered when creating
// a document from scratch, and the HTML policy edited content is cleaned with.
package templates

import (
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ErrNotFound = errors.New("template not found")

// Template is a named HTML skeleton with bracketed placeholders.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

var all = []Template{
	{
		ID:          "affidavit",
		Name:        "Affidavit",
		Description: "A sworn statement of facts.",
		Content: `<div class="p-6 border rounded-lg shadow-md bg-gray-50">
  <h2 class="text-xl font-bold text-center">AFFIDAVIT</h2>
  <p class="text-gray-700">I, <span class="text-blue-600">[Your Name]</span>, of <span class="text-blue-600">[Your Address]</span>, do hereby solemnly swear and affirm that:</p>
  <ol class="list-decimal ml-6 text-gray-700">
    <li>[Statement 1]</li>
    <li>[Statement 2]</li>
    <li>[Statement 3]</li>
  </ol>
  <p class="text-gray-700 mt-4">Signed this <span class="text-blue-600">[Date]</span> at <span class="text-blue-600">[Location]</span>.</p>
  <p class="text-gray-700 font-semibold mt-4">Signature: ___________________</p>
</div>`,
	},
	{
		ID:          "summons",
		Name:        "Summons",
		Description: "A legal order to appear in court.",
		Content: `<div class="p-6 border rounded-lg shadow-md bg-white">
  <h2 class="text-xl font-bold text-center">SUMMONS</h2>
  <p class="text-gray-700">To: <span class="text-blue-600">[Defendant's Name]</span></p>
  <p class="text-gray-700">You are hereby summoned to appear before the <span class="text-blue-600">[Court Name]</span> at <span class="text-blue-600">[Court Address]</span> on <span class="text-blue-600">[Date]</span>.</p>
  <p class="text-gray-700 mt-4">Failure to appear may result in legal consequences.</p>
  <p class="text-gray-700 mt-4">Issued on <span class="text-blue-600">[Date]</span></p>
</div>`,
	},
	{
		ID:          "contract",
		Name:        "Legal Contract",
		Description: "A binding agreement between parties.",
		Content: `<div class="p-6 border rounded-lg shadow-md bg-gray-50">
  <h2 class="text-xl font-bold text-center">LEGAL CONTRACT</h2>
  <p class="text-gray-700">This contract is made on <span class="text-blue-600">[Date]</span> between:</p>
  <p class="text-gray-700 font-semibold">Party A: <span class="text-blue-600">[Name]</span></p>
  <p class="text-gray-700 font-semibold">Party B: <span class="text-blue-600">[Name]</span></p>
  <p class="text-gray-700 mt-4">Terms and Conditions:</p>
  <ul class="list-disc ml-6 text-gray-700">
    <li>[Clause 1]</li>
    <li>[Clause 2]</li>
    <li>[Clause 3]</li>
  </ul>
  <p class="text-gray-700 mt-4">Signed:</p>
  <p class="text-gray-700 font-semibold">Party A: _______________</p>
  <p class="text-gray-700 font-semibold">Party B: _______________</p>
</div>`,
	},
	{
		ID:          "witness_statement",
		Name:        "Witness Statement",
		Description: "A statement given by a witness in a legal case.",
		Content: `<div class="p-6 border rounded-lg shadow-md bg-white">
  <h2 class="text-xl font-bold text-center">WITNESS STATEMENT</h2>
  <p class="text-gray-700">I, <span class="text-blue-600">[Witness Name]</span>, residing at <span class="text-blue-600">[Address]</span>, state as follows:</p>
  <ol class="list-decimal ml-6 text-gray-700">
    <li>[Statement 1]</li>
    <li>[Statement 2]</li>
    <li>[Statement 3]</li>
  </ol>
  <p class="text-gray-700 mt-4">Signed on <span class="text-blue-600">[Date]</span></p>
  <p class="text-gray-700 font-semibold">Signature: ___________________</p>
</div>`,
	},
	{
		ID:          "power_of_attorney",
		Name:        "Power of Attorney",
		Description: "A legal document granting someone authority to act on behalf of another.",
		Content: `<div class="p-6 border rounded-lg shadow-md bg-gray-50">
  <h2 class="text-xl font-bold text-center">POWER OF ATTORNEY</h2>
  <p class="text-gray-700">I, <span class="text-blue-600">[Grantor Name]</span>, hereby appoint <span class="text-blue-600">[Attorney Name]</span> as my lawful attorney.</p>
  <p class="text-gray-700 mt-4">This Power of Attorney is granted for the purpose of <span class="text-blue-600">[Purpose]</span>.</p>
  <p class="text-gray-700 mt-4">Executed on <span class="text-blue-600">[Date]</span> at <span class="text-blue-600">[Location]</span>.</p>
  <p class="text-gray-700 font-semibold">Signature: ___________________</p>
</div>`,
	},
}

// All returns every template in display order.
func All() []Template {
	out := make([]Template, len(all))
	copy(out, all)
	return out
}

// Find looks a template up by its name or id, ignoring case.
func Find(name string) (Template, error) {
	for _, t := range all {
		if strings.EqualFold(t.Name, name) || strings.EqualFold(t.ID, name) {
			return t, nil
		}
	}
	return Template{}, ErrNotFound
}

var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}()

// Sanitize strips scripts, event handlers and other unsafe markup from edited template HTML.
// Layout classes are kept.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
