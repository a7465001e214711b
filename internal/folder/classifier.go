package folder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	"donna/internal/llm"
	"donna/internal/logger"
)

const classifyPrompt = "A user uploaded a file named %q. Pick the best destination category for it.\n" +
	"Respond with only one label from this list, nothing else:\n%s\n" +
	"If none of the labels fits, respond with 'none'."

// Classifier picks a destination folder for an uploaded file from the
// configured taxonomy, based on the file name only. It is best-effort: any
// failure or unrecognized label resolves to no target and the upload falls
// back to the shared folder.
type Classifier struct {
	llm     llm.Completer
	folders map[string]string
	labels  []string
}

// NewClassifier builds a classifier over the label -> folder-id taxonomy.
func NewClassifier(completer llm.Completer, folders map[string]string) *Classifier {
	labels := make([]string, 0, len(folders))
	for label := range folders {
		labels = append(labels, label)
	}
	// Stable prompt across restarts.
	sort.Strings(labels)

	return &Classifier{
		llm:     completer,
		folders: folders,
		labels:  labels,
	}
}

// Classify returns the folder id for the chosen label, or "" when no label
// matched or the model call failed. It never blocks the upload itself.
func (c *Classifier) Classify(ctx context.Context, fileName string) string {
	if len(c.labels) == 0 {
		return ""
	}

	messages := []*schema.Message{
		schema.UserMessage(fmt.Sprintf(classifyPrompt, fileName, strings.Join(c.labels, ", "))),
	}

	out, err := c.llm.Complete(ctx, messages, 0)
	if err != nil {
		logger.Error().Err(err).Str("file", fileName).Msg("folder classification failed, using shared folder")
		return ""
	}

	label := strings.Trim(strings.ToLower(strings.TrimSpace(out)), "'\".` ")
	folderID, ok := c.folders[label]
	if !ok {
		logger.Warn().Str("label", label).Str("file", fileName).Msg("unrecognized folder label, using shared folder")
		return ""
	}

	logger.Info().Str("label", label).Str("file", fileName).Msg("classified upload folder")
	return folderID
}
