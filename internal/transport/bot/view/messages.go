package view

const (
	StartMessage = `📐 <b>Calibration Analyzer</b>

Send a calibration certificate as a document:
• <b>.json</b> with extracted certificate data
• <b>.pdf</b> when the extraction service is configured

The caption is used as custom instructions, e.g. <i>brief</i> or <i>detail DC Voltage</i>.`

	DocumentTooLarge   = "❌ The document is larger than 20 MB."
	ExtractionDisabled = "❌ PDF extraction is not configured. Send the extracted JSON instead."
	DownloadFailed     = "❌ Failed to download the document. Try again later."
)
