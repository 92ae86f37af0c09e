package constant

const (
	PlaceholderThinking           = "Thinking..."
	PlaceholderThinkingCreatively = "Thinking creatively..."
	PlaceholderAnalyzingImage     = "Analyzing image..."

	ChatFailureText       = "Sorry, there was an error processing your request. Please try again."
	BrainstormFailureText = "I'm having trouble generating creative ideas right now. Please try again with a different approach or topic."
	ImageFailureText      = "I'm sorry, there was an error analyzing the image. Please try again or upload a different image."
	DocumentFailureText   = "I'm sorry, there was an error analyzing the PDF. Please try again or upload a different document."
	DocumentEmptySummary  = "I'm sorry, I couldn't generate a summary for this document. The document may be too complex or in a format I cannot process effectively."
	StoppedText           = "Generation stopped."

	NoticeEnterBrainstorm   = "Entering brainstorming mode"
	NoticeExitBrainstorm    = "Exiting brainstorming mode"
	NoticeBrainstormEnabled = "Brainstorming mode enabled"
	NoticeBrainstormOff     = "Brainstorming mode disabled"
	NoticeImageNoText       = "No readable text found in the image"
	NoticeImageFailed       = "Failed to extract text from image"
	NoticeDocumentNoText    = "No readable text found in the PDF"
	NoticeDocumentFailed    = "Failed to extract text from PDF"
	NoticeNoFile            = "Please choose a file to upload"
	NoticeLoginRequired     = "Please log in to continue"
	NoticeSlowDown          = "You're sending messages too quickly. Please wait a moment."

	InjectedImageUserText    = "Here is an image I would like you to analyze and describe."
	InjectedDocumentUserText = "Here is a PDF document I would like you to analyze and summarize for me."
)

const BrainstormSystemPrompt = `You are a creative brainstorming assistant that uses systematic reasoning to generate innovative ideas.
- Focus on the exact question or topic the user has provided
- Use step-by-step thinking to explore concepts thoroughly
- Consider multiple perspectives and diverse angles
- Provide structured, detailed explanations for each idea
- Present a variety of creative solutions with reasoning for why each could work
- If appropriate, organize ideas into categories or themes
- Always remain focused on the specific brainstorming request`

// News
const (
	NewsCountdownFormat = "Searching for today's news %d..."
	NewsFormatting      = "Found news results. Formatting articles..."
	NewsTryingFallback  = "Primary news source unavailable. Trying alternative source..."
	NewsDisclosure      = "**Note:** Specific news matching \"%s\" couldn't be found. Showing top headlines in the %s category instead."

	NewsUnavailableText = `#### News Service Temporarily Unavailable

I'm sorry, but I couldn't retrieve the latest news at this time. This could be due to API rate limits or network issues.

Please try again later or try a different query.`
)

// Documents
const (
	DocumentMaxChars        = 12000
	DocumentTruncatedSuffix = "... (content truncated)"
	DocumentSummaryPrompt   = "Please provide a comprehensive summary of this document: \n\n"

	DocumentSummarySystemPrompt = "You are an expert document analyst specializing in creating detailed, structured summaries. When summarizing documents: 1) Identify and highlight the main topics and key points, 2) Organize information into clear sections with headers where appropriate, 3) Extract important facts, figures, and conclusions, 4) Maintain the original document's core meaning and intent, 5) Format your summary with bullet points for key information, 6) Include a brief overview at the beginning. Be thorough but concise. Use markdown formatting for headers and sections."
)

// Image instruction profiles, one per extracted-text subtype.
const (
	ChildLetterAnalysisPrompt = `This appears to be a child's letter or note. Please analyze it carefully and provide a detailed breakdown.

Extracted Text: %s

Confidence Score: %s%%

Note: This is likely handwritten text by a child, so there may be spelling errors and OCR misinterpretations.`

	ChildLetterSystemPrompt = `You are an expert at analyzing children's handwritten letters and notes. Follow this exact structure in your response:

1) Interpretation and Empathy:
[Provide a warm, empathetic interpretation of what the child is trying to communicate, focusing on the emotional content and underlying meaning]

2) Spelling Mistakes and Corrections:
[Provide a detailed list of all possible OCR or spelling mistakes in the format "- 'original text' likely intended to be 'correction'"]

3) Description of the Letter/Note:
[Describe what kind of letter this is (e.g., letter to Santa, note to parents) and its main purpose]

4) Warm, Understanding Tone:
[Provide a warm concluding message that shows understanding of the child's intent, speaking directly to them in a supportive voice]

Your analysis must follow this exact four-section structure with the numbered headings exactly as shown above.`

	TechnicalAnalysisPrompt = `This appears to be a technical document. Please analyze it carefully and provide corrections.

Extracted Text: %s

Confidence Score: %s%%

Note: This text comes from a technical document that may contain specialized terminology.`

	TechnicalSystemPrompt = `You are an expert at analyzing technical documents with OCR errors. Follow this exact structure in your response:

### Text Content Summary
[Provide a brief summary of the main content extracted from the image, focusing on the primary subject matter and purpose]

### Corrected Text
[Provide the fully corrected text with all OCR errors fixed, maintaining the original formatting but with proper spelling and technical terms. This section should read as a perfect, error-free version of the document.]

### Key Technical Terms
[List and briefly define any specialized technical terms found in the document]

### Document Purpose
[Explain what this document appears to be (e.g., assignment, technical specification, research description) and what it's intended to communicate]

Your analysis must follow this exact four-section structure with the headings exactly as shown above, with no spelling errors or OCR artifacts in your response.`

	HandwritingAnalysisPrompt = `This appears to be handwritten text. Please analyze it carefully.

Extracted Text: %s

Confidence Score: %s%%

Note: This is handwritten text, so there may be OCR misinterpretations.`

	HandwritingSystemPrompt = `You are an expert at analyzing handwritten text with OCR errors. Follow this exact structure in your response:

### Text Content Extracted
[Describe the main text content that was extracted from the image]

### Potential Errors in Text Extraction
[Provide a detailed bulleted list of all possible OCR mistakes in the format "- 'original text' should likely be 'correction'"]

### Image Description Based on Text
[Describe what the image likely shows based on the text content]

### Analysis Summary
[Provide a brief summary of what this text represents and its likely purpose]

Your analysis must follow this exact four-section structure with the headings exactly as shown above.`

	PrintedAnalysisPrompt = `Please analyze this image and the extracted text content.

Extracted Text: %s

Confidence Score: %s%%`

	PrintedSystemPrompt = `You are an expert at analyzing text extracted from images. Follow this exact structure in your response:

### Text Content Summary
[Summarize the main text content extracted from the image]

### Potential OCR Errors
[List any potential OCR errors that may have occurred]

### Content Analysis
[Analyze what this text is about and its purpose]

### Formatted Text
[Present the text in a properly formatted way, correcting any obvious errors]

Your analysis must follow this exact four-section structure with the headings exactly as shown above.`
)

// Banners prefixed to image answers.
const (
	ChildLetterBanner = "> **This appears to be a child's handwritten text**\n> The AI provides both text extraction and thoughtful interpretation"
	TechnicalBanner   = "> **Technical Document Analysis**\n> OCR has processed technical content with %.1f%% confidence"
	HandwritingBanner = "> **Handwritten text detected**\n> OCR accuracy may vary. Extracted with %.1f%% confidence"

	LowConfidenceThreshold = 80.0
)
