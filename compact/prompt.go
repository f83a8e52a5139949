package compact

import (
	"fmt"
	"strings"

	"github.com/marv1nnnnn/llmmin"
)

// formatRules is the part of both prompts that pins the model to the
// positional record format. Tolerated deviations (stray whitespace,
// trailing commas) are repaired at the decode boundary, not here.
const formatRules = `Record format rules:
- Output ONLY record lines. No explanations, no markdown, no code fences.
- One record per line, fields in schema order, separated by "|".
- Nested lists are [{...},{...}] with ";" separated values in schema order.
- Booleans are the tags T or F, never true/false.
- An unknown optional default/example is the null marker "~". An empty
  string field is left empty; never use "~" for empty strings.
- kind is one of: Feat, CfgObj, APIEnd, Func, ClsMth, DataObj, ParamSet,
  Patt, HowTo, Scen, BestPr, Tool.
- relationship kind is one of: U (uses), C (configures), R (returns),
  A (accepts), P (part of), I (instance of), HM (has method),
  HP (has pattern), HwC (helps compatibility), HwP (helps performance).
- Every relationship target must be the id of a record in your output.`

// BuildExtractionPrompt builds the prompt for the first chunk of a
// document. The model acts as a curator extracting Atomic Information
// Units that teach another LLM how to use the documented subject.
func BuildExtractionPrompt(subject, sourceTag string, chunk llmmin.Chunk) string {
	var sb strings.Builder
	sb.WriteString("You are an expert curator extracting Atomic Information Units (AIUs) from technical documentation for ")
	sb.WriteString(subject)
	sb.WriteString(".\nEach AIU is one structured fact: a feature, function, config object, usage pattern, how-to, scenario, or best practice. ")
	sb.WriteString("Prefer fewer, more impactful records describing practical usage over exhaustive API listings.\n\n")

	sb.WriteString("Schema:\n")
	sb.WriteString(llmmin.EncodeSchema())
	sb.WriteString("\n\n")
	sb.WriteString(formatRules)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Set every record's source field to %q.\n\n", sourceTag)

	sb.WriteString("<documentation>\n")
	sb.WriteString(chunk.Text)
	sb.WriteString("\n</documentation>\n")
	return sb.String()
}

// BuildMergePrompt builds the prompt for a subsequent chunk. The model
// receives the complete current record set and the new chunk, and must
// return a complete revised set: reuse existing ids when updating a
// concept, mint new ids only for genuinely new concepts.
func BuildMergePrompt(subject, sourceTag string, set *llmmin.AIUSet, chunk llmmin.Chunk) string {
	var sb strings.Builder
	sb.WriteString("You are an expert curator maintaining a set of Atomic Information Units (AIUs) for ")
	sb.WriteString(subject)
	sb.WriteString(".\nMerge the new documentation chunk below into the current record set and output the COMPLETE revised set, not a delta. ")
	sb.WriteString("When a chunk updates an existing concept, reuse its existing id and revise the record. ")
	sb.WriteString("Mint a new id only for a genuinely new concept. Keep records the chunk does not touch.\n\n")

	sb.WriteString("Schema:\n")
	sb.WriteString(llmmin.EncodeSchema())
	sb.WriteString("\n\n")
	sb.WriteString(formatRules)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Records contributed by this chunk get source %q.\n\n", sourceTag)

	sb.WriteString("<current_records>\n")
	sb.WriteString(SerializeSet(set))
	sb.WriteString("\n</current_records>\n\n")

	sb.WriteString("<documentation>\n")
	sb.WriteString(chunk.Text)
	sb.WriteString("\n</documentation>\n")
	return sb.String()
}

// SerializeSet encodes a set as newline-separated record lines.
func SerializeSet(set *llmmin.AIUSet) string {
	lines := make([]string, 0, set.Len())
	for _, aiu := range set.All() {
		lines = append(lines, llmmin.EncodeAIULine(aiu))
	}
	return strings.Join(lines, "\n")
}
