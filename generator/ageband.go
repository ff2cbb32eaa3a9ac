package generator

import "math"

// AgeBand is one of three developmental-stage buckets.
type AgeBand int

const (
	BandYoung  AgeBand = iota // ≤7
	BandMiddle                // 8–10
	BandOlder                 // ≥11
)

// BandPolicy is the vocabulary and tone directive for one age band.
type BandPolicy struct {
	Band AgeBand
	// MaxAge is the inclusive upper bound of the band.
	MaxAge     int
	Label      string
	Vocabulary string
	Tone       string
}

// bandTable is ordered by MaxAge; the last entry must cover math.MaxInt.
type bandTable []BandPolicy

// lookup picks the first band whose MaxAge is >= age. Unparseable ages
// satisfy no bound and fall through to the last band.
func (t bandTable) lookup(age Age) BandPolicy {
	n, ok := age.Int()
	if ok {
		for _, p := range t {
			if n <= p.MaxAge {
				return p
			}
		}
	}
	return t[len(t)-1]
}

// The two pipelines keep separate tables on purpose: their wording differs
// and the generated text depends on the exact strings.

var dailyBands = bandTable{
	{
		Band:       BandYoung,
		MaxAge:     7,
		Label:      "7세 이하",
		Vocabulary: "'색감', '구도', '명암', '원근', '질감' 같은 미술 전문 용어는 쓰지 말고, '알록달록', '꼼꼼하게', '즐겁게'처럼 쉬운 말만 사용하세요.",
		Tone:       "아이의 즐거움과 호기심이 잘 전해지도록 다정하고 포근한 말투로 작성하세요.",
	},
	{
		Band:       BandMiddle,
		MaxAge:     10,
		Label:      "8-10세",
		Vocabulary: "'색감', '모양', '관찰' 정도의 기초 용어는 사용할 수 있지만 '구도', '명암 대비', '원근법' 같은 전문 용어는 쓰지 마세요.",
		Tone:       "노력한 과정과 작은 성취를 구체적으로 칭찬하는 따뜻한 말투로 작성하세요.",
	},
	{
		Band:       BandOlder,
		MaxAge:     math.MaxInt,
		Label:      "11세 이상",
		Vocabulary: "'구도', '명암', '원근', '질감' 같은 미술 용어를 자연스럽게 사용해도 됩니다.",
		Tone:       "학생의 표현 의도와 기술적 성장을 존중하는 차분하고 전문적인 말투로 작성하세요.",
	},
}

var reportBands = bandTable{
	{
		Band:       BandYoung,
		MaxAge:     7,
		Label:      "5-7세",
		Vocabulary: "전문 미술 용어(구도, 명암, 원근, 채도, 질감)는 사용하지 마세요. '알록달록한 색', '커다란 모양', '꼼꼼한 색칠'처럼 눈에 보이는 표현으로 설명하세요.",
		Tone:       "아이의 자신감과 즐거움을 중심으로 부드럽고 따뜻하게 서술하세요.",
	},
	{
		Band:       BandMiddle,
		MaxAge:     10,
		Label:      "8-10세",
		Vocabulary: "'색감', '형태', '관찰력', '배치' 같은 기초 용어까지 사용하세요. '명암 대비', '원근법', '채도' 같은 심화 용어는 피하세요.",
		Tone:       "구체적인 관찰과 노력의 과정을 칭찬하며 다음 단계를 자연스럽게 제시하세요.",
	},
	{
		Band:       BandOlder,
		MaxAge:     math.MaxInt,
		Label:      "11세 이상",
		Vocabulary: "'구도', '명암', '원근', '채도', '질감', '조형성' 같은 미술 용어를 적절히 사용해 전문성을 보여주세요.",
		Tone:       "학생의 작품 의도와 기술적 완성도를 분석적으로 평가하되 존중하는 어조를 유지하세요.",
	},
}

// DailyBand returns the daily message policy for age.
func DailyBand(age Age) BandPolicy { return dailyBands.lookup(age) }

// ReportBand returns the growth report policy for age.
func ReportBand(age Age) BandPolicy { return reportBands.lookup(age) }
