package generator

import (
	"fmt"
	"strings"
)

// Prompt 는 LLM 에 보내는 한 번의 요청이다.
// Images holds data URLs; when non-empty the user turn is sent as a
// multi-part message (text first, then each image at low detail).
type Prompt struct {
	System     string
	User       string
	Images     []string
	Params     ModelParams
	ExpectJSON bool
}

// ModelParams are the sampling settings for one call.
type ModelParams struct {
	Temperature float64
	MaxTokens   int64
}

// PromptOptions carries the per-deployment values embedded in prompts.
type PromptOptions struct {
	AcademyName string
}

const defaultAcademyName = "해피아트 미술학원"

// Academy returns the configured academy name or the default one.
func (o PromptOptions) Academy() string {
	if strings.TrimSpace(o.AcademyName) == "" {
		return defaultAcademyName
	}
	return o.AcademyName
}

var dailyBannedPhrases = []string{
	"최고", "완벽", "천재", "대단하다", "놀랍다", "~인 것 같아요", "아마도", "~일지도 몰라요",
}

var reportBannedPhrases = []string{
	"최고", "완벽", "천재", "타고난", "놀라운", "~인 것 같습니다", "아마도", "다소", "부족",
}

var progressTexts = map[string]string{
	ProgressStarted:   "오늘 새로운 작품을 시작했습니다.",
	ProgressNone:      "지난 시간에 이어 작품을 계속 진행했습니다.",
	ProgressCompleted: "오늘 작품을 완성했습니다.",
}

// ProgressText maps a progress status to its fixed sentence. Unknown
// statuses, including the empty one, yield "".
func ProgressText(status string) string {
	return progressTexts[status]
}

func writeBanned(sb *strings.Builder, phrases []string) {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = "'" + p + "'"
	}
	sb.WriteString("- 다음 표현은 절대 사용하지 마세요: ")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString("\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// BuildDailyPrompt 는 오늘의 학부모 메시지 프롬프트를 만든다.
func BuildDailyPrompt(req DailyMessageRequest, opts PromptOptions) Prompt {
	name := Personalize(req.StudentName)
	band := DailyBand(req.StudentAge)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("당신은 %s의 따뜻하고 전문적인 미술 선생님입니다.\n", opts.Academy()))
	sb.WriteString("오늘 수업을 마친 뒤 학부모님께 보내는 짧은 안내 메시지를 작성합니다.\n\n")
	sb.WriteString("[작성 원칙]\n")
	writeBanned(&sb, dailyBannedPhrases)
	sb.WriteString(fmt.Sprintf("- 학생 연령대: %s\n", band.Label))
	sb.WriteString(fmt.Sprintf("- 어휘: %s\n", band.Vocabulary))
	sb.WriteString(fmt.Sprintf("- 말투: %s\n", band.Tone))
	sb.WriteString(fmt.Sprintf("- 학생 이름은 '%s' 또는 '%s' 형태로 메시지 전체에서 한 번만 사용하세요. 성을 붙인 전체 이름은 절대 쓰지 마세요.\n",
		name.NounForm, name.PossessiveForm))
	sb.WriteString("- 존댓말(~습니다, ~했어요)을 사용하세요.\n")

	var user strings.Builder
	user.WriteString("[오늘 수업 정보]\n")
	user.WriteString(fmt.Sprintf("- 수업 주제: %s\n", req.Subject))
	user.WriteString(fmt.Sprintf("- 사용한 재료: %s\n", orDefault(req.Materials, "기록 없음")))
	if progress := ProgressText(req.ProgressStatus); progress != "" {
		user.WriteString(fmt.Sprintf("- 진행 상황: %s\n", progress))
	}
	user.WriteString(fmt.Sprintf("- 선생님 메모: %s\n\n", orDefault(req.TeacherMemo, "없음")))
	user.WriteString("[출력 형식]\n")
	user.WriteString("1. 정확히 5문장으로 작성하세요.\n")
	user.WriteString("2. 전체 길이는 공백 포함 250자 이내로 작성하세요.\n")
	user.WriteString("3. 이모지는 메시지 끝에 1개만 사용하세요.\n")
	user.WriteString("4. 인사말이나 서명 없이 메시지 본문만 출력하세요.\n")

	return Prompt{
		System: sb.String(),
		User:   user.String(),
	}
}

// BuildReportPrompt 는 성장 리포트 프롬프트를 만든다. 모델은 고정된 JSON 으로 답해야 한다.
func BuildReportPrompt(req ReportRequest, opts PromptOptions) Prompt {
	name := Personalize(req.StudentName)
	band := ReportBand(req.StudentAge)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("당신은 %s의 따뜻하고 전문적인 미술 선생님입니다.\n", opts.Academy()))
	sb.WriteString("학부모님께 전달할 학생 성장 리포트를 작성합니다. 관찰에 근거해 구체적으로 쓰고, 과장하지 마세요.\n\n")
	sb.WriteString("[작성 원칙]\n")
	writeBanned(&sb, reportBannedPhrases)
	sb.WriteString(fmt.Sprintf("- 학생 연령대: %s\n", band.Label))
	sb.WriteString(fmt.Sprintf("- 어휘: %s\n", band.Vocabulary))
	sb.WriteString(fmt.Sprintf("- 어조: %s\n", band.Tone))
	sb.WriteString(fmt.Sprintf("- 학생 이름은 '%s' 형태로 리포트 전체에서 한 번만 사용하세요. 성을 붙인 전체 이름은 절대 쓰지 마세요.\n", name.NounForm))
	sb.WriteString("\n[출력 형식]\n")
	sb.WriteString("반드시 아래 키를 모두 가진 JSON 객체 하나만 출력하세요. JSON 외의 설명은 쓰지 마세요.\n")
	sb.WriteString("{\n")
	for i, f := range reportFields {
		sep := ","
		if i == len(reportFields)-1 {
			sep = ""
		}
		sb.WriteString(fmt.Sprintf("  %q: \"%s\"%s\n", f.Key, f.Directive, sep))
	}
	sb.WriteString("}\n")
	sb.WriteString("각 값의 앞에 [형태], [색채]처럼 항목 이름을 대괄호로 붙이지 마세요.\n")

	var user strings.Builder
	user.WriteString("[학생 정보]\n")
	user.WriteString(fmt.Sprintf("- 반: %s\n", req.ClassName))
	user.WriteString(fmt.Sprintf("- 나이: %s세\n", req.StudentAge))
	user.WriteString("\n[선생님 관찰 메모]\n")
	user.WriteString(req.TeacherMemo)
	user.WriteString("\n")
	if strings.TrimSpace(req.ParentRequest) != "" {
		user.WriteString("\n[학부모 요청 사항]\n")
		user.WriteString(strings.TrimSpace(req.ParentRequest))
		user.WriteString("\n위 요청 사항을 리포트 내용에 자연스럽게 반영하세요.\n")
	}

	p := Prompt{ExpectJSON: true}
	if req.HasImagePair() {
		user.WriteString("\n[작품 비교]\n")
		user.WriteString("첫 번째 이미지는 이전 작품, 두 번째 이미지는 최근 작품입니다. 두 작품을 비교해 달라진 점과 성장한 점을 각 항목에 구체적으로 반영하세요.\n")
		p.Images = []string{req.ImageBeforeBase64, req.ImageAfterBase64}
	}
	p.System = sb.String()
	p.User = user.String()
	return p
}
