package assistant

import "strings"

// FallbackResponse is the canned reply used when the model is unavailable,
// matched on complaint topic keywords.
func FallbackResponse(message string) string {
	msg := strings.ToLower(message)

	switch {
	case containsAny(msg, "water", "supply", "drainage"):
		return "I can help you with water-related issues! For water supply problems, drainage issues, or sewage blockages, you should contact the Water & Sanitation department. Please provide details about your location and the specific problem you're experiencing."
	case containsAny(msg, "road", "pothole", "street", "traffic"):
		return "For road and transportation issues like potholes, street lighting, or traffic problems, the Road & Transportation department handles these complaints. Please include the exact location with nearby landmarks."
	case containsAny(msg, "garbage", "waste", "trash"):
		return "Waste management issues including garbage collection problems should be reported to the Waste Management department. Please mention your area and the specific issue with collection schedules."
	case containsAny(msg, "building", "construction", "permit"):
		return "Building and construction related issues are handled by the Building & Planning department. This includes permits, zoning issues, and illegal construction complaints."
	case containsAny(msg, "electricity", "power", "outage"):
		return "Electrical issues like power outages or meter problems should be reported to the Electricity department. Please provide your meter number and details about the outage duration."
	}

	return `Hello! I'm here to help you with municipal services and complaints. I can assist you with:

• Finding the right department for your issue
• Drafting complaint descriptions
• Understanding the complaint process
• Information about municipal services

What specific issue would you like help with today?`
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
