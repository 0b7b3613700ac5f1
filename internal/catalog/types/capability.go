package types

import "github.com/lk2023060901/myai/internal/locale"

// Capability is a `cap:*` tag carried by catalog tools.
type Capability string

const (
	CapResearchWeb      Capability = "cap:research-web"
	CapTextExplain      Capability = "cap:text-explain"
	CapTextSummarize    Capability = "cap:text-summarize"
	CapTextEdit         Capability = "cap:text-edit"
	CapSlideGenerate    Capability = "cap:slide-generate"
	CapImageGenerate    Capability = "cap:image-generate"
	CapImageEdit        Capability = "cap:image-edit"
	CapVideoGenerate    Capability = "cap:video-generate"
	CapVideoEdit        Capability = "cap:video-edit"
	CapAudioTranscribe  Capability = "cap:audio-transcribe"
	CapVoiceGenerate    Capability = "cap:voice-generate"
	CapAutomateWorkflow Capability = "cap:automate-workflow"
	CapIntegrations     Capability = "cap:integrations"
	CapDocReadPDF       Capability = "cap:doc-read-pdf"
	CapDicomView        Capability = "cap:dicom-view"
	CapDicomStore       Capability = "cap:dicom-store"
	CapDicomDeid        Capability = "cap:dicom-deid"
	CapMedSeg           Capability = "cap:med-seg"
	CapReportSummarize  Capability = "cap:report-summarize"
)

// Capabilities lists the official categories in display order.
var Capabilities = []Capability{
	CapResearchWeb,
	CapTextExplain,
	CapTextSummarize,
	CapTextEdit,
	CapSlideGenerate,
	CapImageGenerate,
	CapImageEdit,
	CapVideoGenerate,
	CapVideoEdit,
	CapAudioTranscribe,
	CapVoiceGenerate,
	CapAutomateWorkflow,
	CapIntegrations,
	CapDocReadPDF,
	CapDicomView,
	CapDicomStore,
	CapDicomDeid,
	CapMedSeg,
	CapReportSummarize,
}

var capabilityLabels = locale.NewTable(map[locale.Locale]map[Capability]string{
	locale.BG: {
		CapResearchWeb:      "Изследване / търсене",
		CapTextExplain:      "Обяснения / текстов асистент",
		CapTextSummarize:    "Резюме / извличане",
		CapTextEdit:         "Редакция и пренаписване",
		CapSlideGenerate:    "Презентации",
		CapImageGenerate:    "Генериране на изображения",
		CapImageEdit:        "Редакция на изображения",
		CapVideoGenerate:    "Създаване на видео",
		CapVideoEdit:        "Редакция на видео",
		CapAudioTranscribe:  "Транскрипция на аудио/срещи",
		CapVoiceGenerate:    "Синтез/генерация на глас",
		CapAutomateWorkflow: "Автоматизация",
		CapIntegrations:     "Интеграции",
		CapDocReadPDF:       "Четене/анализ на PDF",
		CapDicomView:        "Преглед на DICOM",
		CapDicomStore:       "DICOM сървър",
		CapDicomDeid:        "Анонимизация на DICOM",
		CapMedSeg:           "Медицинска сегментация",
		CapReportSummarize:  "Резюме на радиологичен репорт",
	},
	locale.EN: {
		CapResearchWeb:      "Research / search",
		CapTextExplain:      "Explanations / text assistant",
		CapTextSummarize:    "Summaries / extraction",
		CapTextEdit:         "Editing and rewriting",
		CapSlideGenerate:    "Presentations",
		CapImageGenerate:    "Image generation",
		CapImageEdit:        "Image editing",
		CapVideoGenerate:    "Video creation",
		CapVideoEdit:        "Video editing",
		CapAudioTranscribe:  "Audio/meeting transcription",
		CapVoiceGenerate:    "Voice synthesis",
		CapAutomateWorkflow: "Automation",
		CapIntegrations:     "Integrations",
		CapDocReadPDF:       "PDF reading/analysis",
		CapDicomView:        "DICOM viewing",
		CapDicomStore:       "DICOM server",
		CapDicomDeid:        "DICOM anonymization",
		CapMedSeg:           "Medical segmentation",
		CapReportSummarize:  "Radiology report summary",
	},
})

// Label returns the display label of c in l, or the raw id when unknown.
func (c Capability) Label(l locale.Locale) string {
	if label, ok := capabilityLabels.Lookup(l)[c]; ok {
		return label
	}
	return string(c)
}
