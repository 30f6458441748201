package service

import "strings"

const (
	UpgradeRequiredText = "**Upgrade Required**\n\nTo access the AI-powered health assistant with personalized recommendations, please upgrade to our Lite or Pro tier.\n\n* Lite Tier: AI-powered personalized responses\n* Pro Tier: Advanced AI models with in-depth health analysis\n\nClick the \"Upgrade\" button below to access premium features."

	ErrorReplyText = "I'm sorry, I encountered an error processing your request. Please try again."
)

type cannedResponse struct {
	keywords []string
	text     string
}

// Checked in order; the first matching keyword wins.
var cannedResponses = []cannedResponse{
	{
		keywords: []string{"headache", "head pain"},
		text:     "Headaches can be caused by various factors such as stress, dehydration, lack of sleep, or eye strain. For occasional headaches, rest, hydration, and over-the-counter pain relievers may help. If you're experiencing severe or recurring headaches, it's best to consult a healthcare professional.",
	},
	{
		keywords: []string{"diet", "eat", "food"},
		text:     "A balanced diet is essential for good health. Try to include plenty of fruits, vegetables, whole grains, lean proteins, and healthy fats in your meals. Limit processed foods, sugary drinks, and excessive salt. Remember to stay hydrated by drinking plenty of water throughout the day.",
	},
	{
		keywords: []string{"sleep", "insomnia"},
		text:     "Good sleep hygiene is important for overall health. Aim for 7-9 hours of quality sleep each night. Establish a regular sleep schedule, create a relaxing bedtime routine, and make your bedroom comfortable and free from distractions. Avoid caffeine, large meals, and screen time before bed.",
	},
	{
		keywords: []string{"exercise", "workout"},
		text:     "Regular physical activity is beneficial for both physical and mental health. Aim for at least 150 minutes of moderate-intensity aerobic activity or 75 minutes of vigorous activity per week, along with muscle-strengthening activities twice a week. Find activities you enjoy to make exercise a sustainable part of your routine.",
	},
	{
		keywords: []string{"stress", "anxiety"},
		text:     "Managing stress is crucial for wellbeing. Consider techniques like deep breathing, meditation, physical activity, or connecting with loved ones. Ensure you're getting enough sleep and maintaining a balanced diet. If stress or anxiety is significantly affecting your daily life, consider speaking with a healthcare provider.",
	},
}

const defaultCannedResponse = "I'm here to provide general health information. While I can offer basic guidance on topics like nutrition, exercise, sleep, and common health concerns, I'm not a substitute for professional medical advice. If you have specific health concerns, please consult with a healthcare provider."

// CannedResponse answers from the static table used when no AI key is set.
func CannedResponse(query string) string {
	q := strings.ToLower(query)
	for _, r := range cannedResponses {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.text
			}
		}
	}
	return defaultCannedResponse
}
