package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"
)

const helpReply = "Mình có thể giúp bạn tạo tài khoản (\"tạo tài khoản acb\"), ghi chi tiêu (\"ăn phở 45k\"), " +
	"tạo danh mục, đặt mục tiêu tiết kiệm hoặc thống kê nhanh (\"tháng này tiêu bao nhiêu\")."

var (
	createVerbs  = []string{"tao", "them", "mo", "lap"}
	accountNouns = []string{"tai khoan", "vi", "the ngan hang", "the"}
	goalWords    = []string{"muc tieu", "tiet kiem", "de danh"}
	statsWords   = []string{"thong ke", "bao cao", "tong ket", "bao nhieu", "so du", "tong chi", "tong thu"}
	incomeWords  = []string{"nhan", "luong", "thuong", "thu nhap", "hoan tien", "duoc cho", "co tuc"}
	dayWords     = []string{"hom nay", "hom qua", "hom kia"}

	dayMonth = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)
)

type keywordRule struct {
	words    []string
	category string
}

var expenseRules = []keywordRule{
	{[]string{"an", "uong", "com", "pho", "bun", "cafe", "ca phe", "tra sua", "nhau", "banh", "an trua", "an sang", "an toi"}, "Ăn uống"},
	{[]string{"xang", "grab", "taxi", "xe bus", "ve xe", "gui xe", "be", "xe om"}, "Di chuyển"},
	{[]string{"dien", "nuoc", "internet", "wifi", "tien nha", "thue nha", "hoa don", "dien thoai"}, "Hóa đơn"},
	{[]string{"thuoc", "kham", "benh vien", "gym", "nha khoa"}, "Sức khỏe"},
	{[]string{"phim", "game", "du lich", "karaoke", "concert"}, "Giải trí"},
	{[]string{"mua", "shopee", "lazada", "tiki", "quan ao", "giay"}, "Mua sắm"},
}

var incomeRules = []keywordRule{
	{[]string{"luong"}, "Lương"},
	{[]string{"thuong"}, "Thưởng"},
	{[]string{"co tuc", "lai", "dau tu", "chung khoan"}, "Đầu tư"},
}

const (
	fallbackExpenseCategory = "Khác"
	fallbackIncomeCategory  = "Thu nhập khác"
)

// RuleParser classifies Vietnamese messages with keyword rules. It needs no network and
// backs the model when no API key is configured or the model call fails.
type RuleParser struct{}

// Parse classifies message
func (RuleParser) Parse(message string, uc UserContext) *Result {
	orig, folded := words(message)
	today := uc.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = utils.Day(today)

	amount, hasAmount := findAmount(folded)
	var r *Result
	switch {
	case createIndex(folded, accountNouns) >= 0:
		r = parseAccount(orig, folded, createIndex(folded, accountNouns), amount, hasAmount)
	case createIndex(folded, []string{"danh muc"}) >= 0:
		r = parseCategory(orig, folded, createIndex(folded, []string{"danh muc"}))
	case hasAmount && findAny(folded, goalWords...) >= 0:
		r = parseGoal(orig, folded, findAny(folded, goalWords...), amount, today)
	case findAny(folded, statsWords...) >= 0:
		r = &Result{Intent: IntentQuickStats, Stats: &StatsDraft{Period: statsPeriod(folded)}}
	case hasAmount:
		r = parseTransaction(orig, folded, amount, uc, today)
	default:
		r = &Result{Intent: IntentUnknown, Reply: helpReply}
	}
	r.Normalize()
	return r
}

// createIndex finds "<create verb> <noun>" and returns the token index after it, or -1
func createIndex(folded []string, nouns []string) int {
	for _, verb := range createVerbs {
		for _, noun := range nouns {
			if i := findPhrase(folded, verb+" "+noun); i >= 0 {
				return i
			}
			// "tạo mới tài khoản"
			if i := findPhrase(folded, verb+" moi "+noun); i >= 0 {
				return i
			}
		}
	}
	return -1
}

func parseAccount(orig, folded []string, after int, amount amountSpan, hasAmount bool) *Result {
	a := &AccountDraft{}
	if hasAmount {
		a.InitialBalance = Amount{amount.Value}
	}
	for _, w := range folded {
		if bank, ok := CanonicalBank(w); ok {
			a.BankName = bank
			break
		}
	}
	switch {
	case a.BankName != "":
		a.Type = string(domain.AccountTypeBank)
	case findPhrase(folded, "tien mat") >= 0:
		a.Type = string(domain.AccountTypeCash)
	case findPhrase(folded, "ngan hang") >= 0:
		a.Type = string(domain.AccountTypeBank)
		if i := findPhrase(folded, "ngan hang"); i < len(folded) && !inSpan(i, amount, hasAmount) {
			a.BankName = strings.ToUpper(orig[i])
		}
	default:
		rest := keep(orig, folded, after, len(folded), func(i int) bool { return !inSpan(i, amount, hasAmount) })
		a.Name = capitalize(strings.Join(rest, " "))
	}
	return &Result{Intent: IntentAddAccount, Account: a}
}

func parseCategory(orig, folded []string, after int) *Result {
	c := &CategoryDraft{Type: string(domain.CategoryTypeExpense)}
	if findAny(folded, "thu nhap", "khoan thu", "loai thu") >= 0 {
		c.Type = string(domain.CategoryTypeIncome)
	}
	typeWords := map[string]bool{"thu": true, "nhap": true, "chi": true, "tieu": true, "loai": true, "khoan": true}
	rest := keep(orig, folded, after, len(folded), func(i int) bool { return !typeWords[folded[i]] })
	c.Name = capitalize(strings.Join(rest, " "))
	return &Result{Intent: IntentAddCategory, Category: c}
}

func parseGoal(orig, folded []string, after int, amount amountSpan, today time.Time) *Result {
	g := &GoalDraft{TargetAmount: Amount{amount.Value}}
	deadline := -1
	for i, w := range folded {
		if d, ok := parseDayMonth(w, today); ok {
			g.Deadline = d.Format(utils.DateLayout)
			deadline = i
		}
	}
	filler := map[string]bool{"de": true, "cho": true, "la": true, "truoc": true, "han": true, "den": true, "ngay": true}
	rest := keep(orig, folded, after, len(folded), func(i int) bool {
		return !inSpan(i, amount, true) && i != deadline && !filler[folded[i]]
	})
	g.Name = capitalize(strings.Join(rest, " "))
	return &Result{Intent: IntentAddGoal, Goal: g}
}

func parseTransaction(orig, folded []string, amount amountSpan, uc UserContext, today time.Time) *Result {
	t := &TransactionDraft{Amount: Amount{amount.Value}, Type: string(domain.CategoryTypeExpense)}
	if findAny(folded, incomeWords...) >= 0 || len(folded) > 0 && folded[0] == "thu" {
		t.Type = string(domain.CategoryTypeIncome)
	}
	t.Category = matchCategory(folded, uc, t.Type)
	t.Account = matchAccount(folded, uc)

	date := today
	switch {
	case findPhrase(folded, "hom qua") >= 0:
		date = today.AddDate(0, 0, -1)
	case findPhrase(folded, "hom kia") >= 0:
		date = today.AddDate(0, 0, -2)
	}
	dated := -1
	for i, w := range folded {
		if d, ok := parseDayMonth(w, today); ok {
			date, dated = d, i
		}
	}
	t.Date = date.Format(utils.DateLayout)

	skip := map[int]bool{dated: true}
	for _, p := range dayWords {
		if i := findPhrase(folded, p); i >= 0 {
			skip[i-1], skip[i-2] = true, true
		}
	}
	rest := keep(orig, folded, 0, len(folded), func(i int) bool {
		return !inSpan(i, amount, true) && !skip[i]
	})
	t.Description = strings.Join(rest, " ")
	if t.Description == "" {
		t.Description = t.Category
	}
	return &Result{Intent: IntentAddTransaction, Transaction: t}
}

// matchCategory prefers the user's own category names, then keyword rules
func matchCategory(folded []string, uc UserContext, typ string) string {
	best := ""
	for _, c := range uc.Categories {
		if c.Type != typ {
			continue
		}
		if findPhrase(folded, Fold(c.Name)) >= 0 && utf8.RuneCountInString(c.Name) > utf8.RuneCountInString(best) {
			best = c.Name
		}
	}
	if best != "" {
		return best
	}
	rules, fallback := expenseRules, fallbackExpenseCategory
	if typ == string(domain.CategoryTypeIncome) {
		rules, fallback = incomeRules, fallbackIncomeCategory
	}
	for _, rule := range rules {
		if findAny(folded, rule.words...) >= 0 {
			return rule.category
		}
	}
	return fallback
}

// matchAccount finds an account named in the message, by name or bank
func matchAccount(folded []string, uc UserContext) string {
	for _, a := range uc.Accounts {
		if a.Name != "" && findPhrase(folded, Fold(a.Name)) >= 0 {
			return a.Name
		}
	}
	for _, w := range folded {
		bank, ok := CanonicalBank(w)
		if !ok {
			continue
		}
		for _, a := range uc.Accounts {
			if known, _ := CanonicalBank(a.BankName); known == bank || strings.EqualFold(a.BankName, bank) {
				return a.Name
			}
		}
		return bank
	}
	if findPhrase(folded, "tien mat") >= 0 {
		for _, a := range uc.Accounts {
			if a.BankName == "" {
				return a.Name
			}
		}
	}
	return ""
}

func statsPeriod(folded []string) string {
	switch {
	case findAny(folded, "hom nay", "trong ngay") >= 0:
		return utils.PeriodDay
	case findAny(folded, "tuan") >= 0:
		return utils.PeriodWeek
	case findAny(folded, "nam nay", "nam") >= 0:
		return utils.PeriodYear
	}
	return utils.PeriodMonth
}

// parseDayMonth reads dd/mm or dd/mm/yyyy; a missing year is the current one
func parseDayMonth(w string, today time.Time) (time.Time, bool) {
	m := dayMonth.FindStringSubmatch(w)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := today.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	d, err := utils.ParseDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	return d, err == nil
}

func inSpan(i int, s amountSpan, ok bool) bool {
	return ok && i >= s.Start && i < s.End
}

// keep returns the original tokens in [from, to) accepted by fn
func keep(orig, folded []string, from, to int, fn func(int) bool) []string {
	var out []string
	for i := from; i < to && i < len(folded); i++ {
		if folded[i] != "" && fn(i) {
			out = append(out, orig[i])
		}
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
