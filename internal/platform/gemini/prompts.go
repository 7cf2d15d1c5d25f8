package gemini

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kestrelab/linkhoard/internal/domain"
)

// summarizePrompt asks for a short description of the fetched page. The
// optional hint carries import context, such as the browser-export section
// a favorite came from.
func summarizePrompt(content, hint string) string {
	var b strings.Builder

	b.WriteString("You will be given the content of a webpage. Your task is to create a brief summary describing the webpage and what it is about. Here is the webpage content:\n\n")
	b.WriteString("<webpage_content>\n")
	b.WriteString(content)
	b.WriteString("\n</webpage_content>\n\n")

	if hint != "" {
		b.WriteString("Additional context about where this page was saved from:\n\n<context>\n")
		b.WriteString(hint)
		b.WriteString("\n</context>\n\n")
	}

	b.WriteString(`Please create a summary of 2-3 sentences that describes the webpage and its main topic or purpose. Your summary should:

1. Identify the type of webpage (e.g., article, product page, blog post, etc.)
2. Explain the main subject or theme of the content
3. Highlight any key features or important information presented on the page
4. If the webpage is part of an aggregation site, with many different pages, and the site has decoration around the page content, do not include the parent content in the summary

Focus on providing a concise yet informative overview that would give someone a clear idea of what they would find if they visited this webpage. DO NOT write anything but the summary.`)

	return b.String()
}

// tagsPrompt asks for a comma-separated list of 3-5 tags for a summary.
func tagsPrompt(summary string) string {
	return fmt.Sprintf(`You are tasked with suggesting 3-5 relevant tags for the following summary:

<summary>
%s
</summary>

Your goal is to generate tags that accurately represent the main topics, themes, or key elements discussed in the summary. Follow these guidelines when selecting tags:

1. Choose tags that are concise, typically consisting of one or two words.
2. Focus on the most prominent and important concepts in the summary.
3. Avoid overly generic tags that could apply to almost any text.
4. Ensure the tags are diverse and cover different aspects of the summary.
5. If applicable, include tags related to the subject matter, industry, or field of study.

Provide your answer as a comma-separated list of tags, without any additional text or explanation. The list should contain a minimum of 3 tags and a maximum of 5 tags.

Example output format:
tag1, tag2, tag3, tag4, tag5

Remember to adjust the number of tags based on the content of the summary, ensuring you provide at least 3 and no more than 5 tags.`, summary)
}

// folderPrompt asks the model to place summarized content in the existing
// folder tree, answering "ID: <id>" or "NEW: <name>".
func folderPrompt(summary, folderListing string) string {
	return fmt.Sprintf(`You are tasked with suggesting the most appropriate folder for a webpage based on its summary and the existing folder structure. Follow these steps carefully:

1. First, you will be presented with a summary of a webpage:

<summary>
%s
</summary>

2. Next, you will be given the existing folder structure:

<folder_structure>
%s
</folder_structure>

3. Analyze the webpage summary and compare it to the themes or topics represented by the existing folders. Consider the following:
   - Does the content of the summary clearly match any of the existing folder themes?
   - Are there key words or concepts in the summary that align with folder names?
   - If no existing folder seems appropriate, what new folder name would best categorize this webpage?

4. Based on your analysis, provide your suggestion in one of these two formats:
   - If an existing folder is appropriate: ID: [folder id]
   - If a new folder is needed: NEW: [folder name]

5. IMPORTANT: Your response must contain ONLY the folder ID or NEW suggestion. Do not include any explanations, justifications, or additional text.

Remember, your goal is to provide the most accurate categorization for the webpage based on its summary and the existing folder structure. Be concise and precise in your output.`, summary, folderListing)
}

// rootFolder returns the first folder with no parent, or nil.
func rootFolder(folders []*domain.Folder) *domain.Folder {
	for _, f := range folders {
		if f.ParentID == nil {
			return f
		}
	}
	return nil
}

// folderExists reports whether id names one of the known folders.
func folderExists(folders []*domain.Folder, id uuid.UUID) bool {
	for _, f := range folders {
		if f.ID == id {
			return true
		}
	}
	return false
}

// formatFolderListing renders the folder tree as an indented list of
// "- name (ID: ...)" lines. Traversal uses an explicit stack; children are
// visited in name order for a stable prompt.
func formatFolderListing(folders []*domain.Folder) string {
	children := make(map[uuid.UUID][]*domain.Folder)
	var roots []*domain.Folder
	for _, f := range folders {
		if f.ParentID == nil {
			roots = append(roots, f)
		} else {
			children[*f.ParentID] = append(children[*f.ParentID], f)
		}
	}

	byName := func(list []*domain.Folder) {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	byName(roots)
	for _, list := range children {
		byName(list)
	}

	type frame struct {
		folder *domain.Folder
		level  int
	}

	var b strings.Builder
	stack := make([]frame, 0, len(folders))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.WriteString(strings.Repeat("  ", top.level))
		fmt.Fprintf(&b, "- %s (ID: %s)\n", top.folder.Name, top.folder.ID)

		kids := children[top.folder.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], top.level + 1})
		}
	}

	return b.String()
}

// parseTagList splits a comma-separated tag response, dropping empties and
// normalizing each tag.
func parseTagList(text string) []string {
	var tags []string
	for _, raw := range strings.Split(text, ",") {
		tag := domain.NormalizeTagName(raw)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseNewFolder extracts the folder name from a "NEW: <name>" suggestion.
func parseNewFolder(suggestion string) (string, bool) {
	if !strings.HasPrefix(suggestion, "NEW:") {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimPrefix(suggestion, "NEW:"))
	return name, name != ""
}

// parseFolderID extracts the folder ID from an "ID: <id>" suggestion. A
// bare ID without the prefix is also accepted.
func parseFolderID(suggestion string) (uuid.UUID, bool) {
	s := suggestion
	if strings.HasPrefix(s, "ID:") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "ID:"))
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
