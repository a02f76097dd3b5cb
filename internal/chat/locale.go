package chat

import (
	"fmt"
	"strings"
)

// Language selects the strings used for a conversation.
type Language string

const (
	LanguageZH Language = "zh"
	LanguageEN Language = "en"

	DefaultLanguage = LanguageZH
)

// FailureMarker prefixes every turn that reports an error.
const FailureMarker = "⚠️"

// ParseLanguage accepts "zh" or "en" in any case.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageZH:
		return LanguageZH, nil
	case LanguageEN:
		return LanguageEN, nil
	case "":
		return DefaultLanguage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

type localized struct {
	zh string
	en string
}

func (l localized) in(lang Language) string {
	if lang == LanguageEN {
		return l.en
	}
	return l.zh
}

var labels = map[Field]localized{
	FieldTitle:       {zh: "職缺名稱", en: "Job Title"},
	FieldDescription: {zh: "工作內容", en: "Job Description"},
	FieldSkills:      {zh: "必備技能", en: "Required Skills"},
	FieldPlus:        {zh: "加分條件", en: "Preferred Qualifications"},
	FieldLocation:    {zh: "工作地點", en: "Job Location"},
	FieldMode:        {zh: "工作型態", en: "Work Type"},
	FieldSalary:      {zh: "薪資範圍", en: "Salary Range"},
}

// Label returns the display name of f. Unknown fields fall back to their identifier.
func Label(f Field, lang Language) string {
	l, ok := labels[f]
	if !ok {
		return string(f)
	}
	return l.in(lang)
}

var (
	greeting = localized{
		zh: "嗨！請問您想建立哪一個職缺呢？我會一步步引導您填寫職缺資訊。",
		en: "Hi! What position would you like to post? I will guide you step by step.",
	}
	systemPrompt = localized{
		zh: "你是一位親切、耐心且語氣自然的繁體中文 AI 助理，協助企業一步步建立職缺資料。請依照以下 7 個欄位順序收集資訊：職缺名稱、工作內容、必備技能、加分條件、工作地點、工作型態、薪資範圍。每次只問一題。若使用者回答模糊請補問細節，不要總結或跳過欄位。",
		en: "You are a friendly and patient AI assistant guiding the user to complete job posting fields. Please collect these 7 fields: Job Title, Job Description, Required Skills, Preferred Qualifications, Location, Work Mode, Salary Range. Ask one question at a time. If vague, follow up. Do not summarize or skip fields.",
	}
	askOnly = localized{
		zh: "現在請只詢問「%s」這一項，使用者的下一個回覆會直接作為此欄位的內容。",
		en: "Now ask only for the %s. The user's next reply is recorded verbatim as that field.",
	}
	summaryPrompt = localized{
		zh: "以下是公司職缺資訊，請產生一段 2~3 句的分析摘要，建議應徵人選特質或能力方向：\n%s",
		en: "Here is a job posting. Please generate a 2-3 sentence summary with recommended candidate traits and skills:\n%s",
	}
	savedHeader = localized{
		zh: "📄 職缺資料已成功儲存 ✅",
		en: "📄 Job data has been saved ✅",
	}
	analysisHeader = localized{
		zh: "📊 分析報告摘要",
		en: "📊 Summary",
	}
	systemError = localized{
		zh: FailureMarker + " 系統錯誤，請稍後再試。(%s)",
		en: FailureMarker + " System error. Please try again later. (%s)",
	}
	saveError = localized{
		zh: FailureMarker + " 職缺資料儲存失敗，請聯絡管理員。(%s)",
		en: FailureMarker + " The job posting could not be saved. Please contact an administrator. (%s)",
	}
	noResponse = localized{
		zh: "(無回應)",
		en: "(No response)",
	}
	analysisFailed = localized{
		zh: "(分析失敗)",
		en: "(Analysis failed)",
	}
)

// Greeting is the first assistant turn of every conversation.
func Greeting(lang Language) string { return greeting.in(lang) }

// SystemPrompt is the preamble sent ahead of the transcript. When next is
// non-empty the prompt also pins the question to that field.
func SystemPrompt(lang Language, next Field) string {
	p := systemPrompt.in(lang)
	if next == "" {
		return p
	}
	return p + "\n" + fmt.Sprintf(askOnly.in(lang), Label(next, lang))
}

// SummaryPrompt asks for a short analysis of a completed posting.
func SummaryPrompt(lang Language, fields FieldSet) string {
	return fmt.Sprintf(summaryPrompt.in(lang), strings.Join(fields.Lines(lang, "", ": "), "\n"))
}

// AnalysisFailed is substituted when the summary request fails.
func AnalysisFailed(lang Language) string { return analysisFailed.in(lang) }

// NoResponse is substituted when the assistant returns an empty reply.
func NoResponse(lang Language) string { return noResponse.in(lang) }

// SystemError renders the turn appended when a completion request fails.
func SystemError(lang Language, err error) string {
	return fmt.Sprintf(systemError.in(lang), errText(err))
}

// SaveError renders the turn appended when the posting cannot be stored.
func SaveError(lang Language, err error) string {
	return fmt.Sprintf(saveError.in(lang), errText(err))
}

// SavedMessage is the combined confirmation appended after a successful save.
func SavedMessage(lang Language, fields FieldSet, analysis string) string {
	var b strings.Builder
	b.WriteString(savedHeader.in(lang))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(fields.Lines(lang, "🔹 ", "："), "\n"))
	b.WriteString("\n\n")
	b.WriteString(analysisHeader.in(lang))
	b.WriteString("\n")
	b.WriteString(analysis)
	return b.String()
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
