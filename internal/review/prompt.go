package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoFindings is returned when a model response holds no JSON object.
var ErrNoFindings = errors.New("no JSON object in model response")

const systemPrompt = `你是一个专业的中文错别字检测专家。你的任务是仔细检查文本中的错别字，包括：
1. 同音字错误（如：的/得/地、在/再、做/作）
2. 形近字错误（如：己/已、未/末）
3. 常见易错字（如：必需/必须、制定/制订）
4. 标点符号错误
5. 其他语法和用词错误

请仔细分析文本，找出所有错别字，并给出正确的写法。`

const userPromptTemplate = `请仔细检查以下文本中的错别字。请逐字逐句分析，找出所有错别字。

文本内容：
%s

请以JSON格式返回检测结果，格式如下：
{
    "typos": [
        {
            "word": "错别字",
            "correct": "正确字",
            "position": 位置索引（从0开始的数字）,
            "context": "包含错别字的上下文（前后各20字左右）"
        }
    ]
}

要求：
1. 仔细检查每个字词，不要遗漏
2. 对于同音字错误（如的/得/地），需要根据语境判断是否正确
3. 如果没有错别字，返回：{"typos": []}
4. 只返回JSON格式，不要添加任何其他文字或解释`

func system(opts Options) string {
	if opts.Prompt != "" {
		return opts.Prompt
	}
	return systemPrompt
}

func userPrompt(text string) string {
	return fmt.Sprintf(userPromptTemplate, text)
}

// ParseFindings extracts the typo list from a model response. Text around
// the outermost JSON object is ignored and entries without a word or a
// correction are dropped.
func ParseFindings(response string) ([]Typo, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return nil, ErrNoFindings
	}

	var payload struct {
		Typos []Typo `json:"typos"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}

	typos := make([]Typo, 0, len(payload.Typos))
	for _, t := range payload.Typos {
		if t.Word == "" || t.Correct == "" {
			continue
		}
		typos = append(typos, t)
	}
	return typos, nil
}

// Summary formats typos for display.
func Summary(typos []Typo) string {
	if len(typos) == 0 {
		return "未发现错别字"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "发现 %d 个错别字：", len(typos))
	for i, t := range typos {
		fmt.Fprintf(&b, "\n%d. \"%s\" → \"%s\"", i+1, t.Word, t.Correct)
		if t.Context != "" {
			ctx := []rune(t.Context)
			if len(ctx) > 50 {
				ctx = ctx[:50]
			}
			fmt.Fprintf(&b, "\n   上下文: %s", string(ctx))
		}
	}
	return b.String()
}

// newResult builds a Result from a raw response.
func newResult(response, model string, usage TokenUsage) (*Result, error) {
	typos, err := ParseFindings(response)
	if err != nil {
		return nil, err
	}
	return &Result{
		Typos:   typos,
		Summary: Summary(typos),
		Model:   model,
		Usage:   usage,
	}, nil
}
