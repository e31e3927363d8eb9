package inference

const DiagnosisPrompt = `Analyze this plant leaf image and identify any disease it shows.
Answer in exactly three sections, each under its literal heading:

Disease Name:
<the name of the disease, or "Healthy" if no disease is visible>

Causes:
<the main causes of this disease>

Prevention and Remedies:
<how to prevent the disease and how to treat the affected plant>

Use plain text only, without markdown.`

const PingPrompt = "Reply with one short sentence confirming you are reachable."
