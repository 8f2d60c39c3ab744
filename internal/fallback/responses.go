package fallback

import (
	"github.com/simplymedi/simplymedi-be/internal/classifier"
)

// Response is a canned assistant reply used when the provider cannot answer
type Response struct {
	Content string
	Action  string // "retry", "see_doctor", "manual_booking"
}

// Keyed by catalog language code. Languages without entries fall back
// to english.
var responsesByLanguage = map[string]map[classifier.Intent]Response{
	"english": {
		classifier.IntentMedicalQ: {
			Content: "I'm having trouble processing your message right now. If you're experiencing severe symptoms like intense pain, difficulty breathing, or heavy bleeding, please contact your doctor or emergency services immediately.",
			Action:  "see_doctor",
		},
		classifier.IntentReportQ: {
			Content: "I can't look at your report right now, but it is safely stored in the app. Please try again in a moment, or ask your doctor to walk you through it.",
			Action:  "retry",
		},
		classifier.IntentScheduling: {
			Content: "I'm having trouble right now, but the appointments page still works. You can book or change a visit there directly.",
			Action:  "manual_booking",
		},
		classifier.IntentSmallTalk: {
			Content: "I'm here! Having a small technical hiccup. How can I help you today?",
			Action:  "retry",
		},
		classifier.IntentGratitude: {
			Content: "You're welcome! Take care of yourself.",
			Action:  "retry",
		},
		classifier.IntentUnclear: {
			Content: "I'm having trouble understanding right now. Could you try rephrasing your question?",
			Action:  "retry",
		},
	},
	"hindi": {
		classifier.IntentMedicalQ: {
			Content: "मुझे अभी आपका संदेश समझने में दिक्कत हो रही है। अगर आपको तेज़ दर्द, सांस लेने में तकलीफ या कोई गंभीर लक्षण है, तो कृपया तुरंत अपने डॉक्टर से संपर्क करें।",
			Action:  "see_doctor",
		},
		classifier.IntentReportQ: {
			Content: "मैं अभी आपकी रिपोर्ट नहीं देख पा रहा हूँ, लेकिन वह ऐप में सुरक्षित है। कृपया थोड़ी देर बाद फिर कोशिश करें।",
			Action:  "retry",
		},
		classifier.IntentScheduling: {
			Content: "मुझे अभी तकनीकी दिक्कत है, लेकिन अपॉइंटमेंट पेज काम कर रहा है। आप वहाँ से सीधे बुकिंग कर सकते हैं।",
			Action:  "manual_booking",
		},
		classifier.IntentSmallTalk: {
			Content: "नमस्ते! छोटी सी तकनीकी दिक्कत चल रही है। मैं आपकी कैसे मदद कर सकता हूँ?",
			Action:  "retry",
		},
		classifier.IntentGratitude: {
			Content: "आपका स्वागत है! अपना ध्यान रखें।",
			Action:  "retry",
		},
		classifier.IntentUnclear: {
			Content: "मुझे समझने में दिक्कत हो रही है। क्या आप अपना सवाल दोबारा लिख सकते हैं?",
			Action:  "retry",
		},
	},
	"spanish": {
		classifier.IntentMedicalQ: {
			Content: "Estoy teniendo problemas para procesar tu mensaje ahora. Si presentas síntomas graves como dolor intenso, dificultad para respirar o sangrado abundante, contacta a tu médico o a emergencias de inmediato.",
			Action:  "see_doctor",
		},
		classifier.IntentReportQ: {
			Content: "No puedo revisar tu informe en este momento, pero está guardado en la aplicación. Inténtalo de nuevo en un momento.",
			Action:  "retry",
		},
		classifier.IntentScheduling: {
			Content: "Estoy teniendo problemas ahora, pero la página de citas sigue funcionando. Puedes reservar o cambiar una visita directamente allí.",
			Action:  "manual_booking",
		},
		classifier.IntentSmallTalk: {
			Content: "¡Estoy aquí! Teniendo un pequeño problema técnico. ¿Cómo puedo ayudarte hoy?",
			Action:  "retry",
		},
		classifier.IntentGratitude: {
			Content: "¡De nada! Cuídate mucho.",
			Action:  "retry",
		},
		classifier.IntentUnclear: {
			Content: "Estoy teniendo problemas para entender ahora. ¿Podrías reformular tu pregunta?",
			Action:  "retry",
		},
	},
	"french": {
		classifier.IntentMedicalQ: {
			Content: "J'ai du mal à traiter votre message pour le moment. Si vous présentez des symptômes graves comme une douleur intense ou des difficultés à respirer, contactez immédiatement votre médecin.",
			Action:  "see_doctor",
		},
		classifier.IntentReportQ: {
			Content: "Je ne peux pas consulter votre compte rendu pour l'instant, mais il reste disponible dans l'application. Réessayez dans un moment.",
			Action:  "retry",
		},
		classifier.IntentScheduling: {
			Content: "Je rencontre un problème technique, mais la page des rendez-vous fonctionne toujours. Vous pouvez réserver directement.",
			Action:  "manual_booking",
		},
		classifier.IntentSmallTalk: {
			Content: "Je suis là ! Petit souci technique en cours. Comment puis-je vous aider ?",
			Action:  "retry",
		},
		classifier.IntentGratitude: {
			Content: "Avec plaisir ! Prenez soin de vous.",
			Action:  "retry",
		},
		classifier.IntentUnclear: {
			Content: "J'ai du mal à comprendre. Pouvez-vous reformuler votre question ?",
			Action:  "retry",
		},
	},
	"arabic": {
		classifier.IntentMedicalQ: {
			Content: "أواجه مشكلة في معالجة رسالتك الآن. إذا كانت لديك أعراض شديدة مثل ألم حاد أو صعوبة في التنفس، يرجى الاتصال بطبيبك فوراً.",
			Action:  "see_doctor",
		},
		classifier.IntentReportQ: {
			Content: "لا أستطيع الاطلاع على تقريرك الآن، لكنه محفوظ في التطبيق. يرجى المحاولة مرة أخرى بعد قليل.",
			Action:  "retry",
		},
		classifier.IntentScheduling: {
			Content: "أواجه مشكلة تقنية الآن، لكن صفحة المواعيد تعمل. يمكنك الحجز منها مباشرة.",
			Action:  "manual_booking",
		},
		classifier.IntentSmallTalk: {
			Content: "مرحباً! أواجه مشكلة تقنية بسيطة. كيف يمكنني مساعدتك اليوم؟",
			Action:  "retry",
		},
		classifier.IntentGratitude: {
			Content: "على الرحب والسعة! اعتنِ بنفسك.",
			Action:  "retry",
		},
		classifier.IntentUnclear: {
			Content: "أجد صعوبة في الفهم الآن. هل يمكنك إعادة صياغة سؤالك؟",
			Action:  "retry",
		},
	},
}

var timeoutResponses = map[string]Response{
	"english": {
		Content: "I'm taking longer than usual to respond. This might be a temporary issue. If your question is urgent, please contact your doctor.",
		Action:  "retry",
	},
	"hindi": {
		Content: "जवाब देने में सामान्य से ज़्यादा समय लग रहा है। अगर आपका सवाल ज़रूरी है, तो कृपया अपने डॉक्टर से संपर्क करें।",
		Action:  "retry",
	},
	"spanish": {
		Content: "Estoy tardando más de lo habitual en responder. Si tu pregunta es urgente, contacta a tu médico.",
		Action:  "retry",
	},
	"french": {
		Content: "Je mets plus de temps que d'habitude à répondre. Si votre question est urgente, contactez votre médecin.",
		Action:  "retry",
	},
	"arabic": {
		Content: "أستغرق وقتاً أطول من المعتاد للرد. إذا كان سؤالك عاجلاً، يرجى التواصل مع طبيبك.",
		Action:  "retry",
	},
}

var circuitOpenResponses = map[string]Response{
	"english": {
		Content: "I'm temporarily unavailable due to technical difficulties. I'll be back shortly. For urgent matters, please contact your doctor directly.",
		Action:  "see_doctor",
	},
	"hindi": {
		Content: "तकनीकी कारणों से मैं अभी उपलब्ध नहीं हूँ। जल्द वापस आऊँगा। ज़रूरी मामलों के लिए कृपया अपने डॉक्टर से सीधे संपर्क करें।",
		Action:  "see_doctor",
	},
	"spanish": {
		Content: "Estoy temporalmente no disponible debido a dificultades técnicas. Volveré pronto. Para asuntos urgentes, contacta directamente a tu médico.",
		Action:  "see_doctor",
	},
	"french": {
		Content: "Je suis temporairement indisponible en raison de difficultés techniques. Pour toute urgence, contactez directement votre médecin.",
		Action:  "see_doctor",
	},
	"arabic": {
		Content: "أنا غير متاح مؤقتاً بسبب صعوبات تقنية. سأعود قريباً. للأمور العاجلة يرجى التواصل مع طبيبك مباشرة.",
		Action:  "see_doctor",
	},
}

// Languages returns the language codes with dedicated response sets
func Languages() []string {
	langs := make([]string, 0, len(responsesByLanguage))
	for code := range responsesByLanguage {
		langs = append(langs, code)
	}
	return langs
}

// GetFallbackResponse returns an appropriate canned reply for the intent
func GetFallbackResponse(intent classifier.Intent, language string) Response {
	responses, ok := responsesByLanguage[language]
	if !ok {
		responses = responsesByLanguage["english"]
	}

	if response, ok := responses[intent]; ok {
		return response
	}
	return responses[classifier.IntentUnclear]
}

// GetTimeoutResponse returns a timeout-specific reply
func GetTimeoutResponse(language string) Response {
	if response, ok := timeoutResponses[language]; ok {
		return response
	}
	return timeoutResponses["english"]
}

// GetCircuitOpenResponse returns a reply for when the provider circuit is open
func GetCircuitOpenResponse(language string) Response {
	if response, ok := circuitOpenResponses[language]; ok {
		return response
	}
	return circuitOpenResponses["english"]
}
