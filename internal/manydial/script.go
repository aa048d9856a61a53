package manydial

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Script is the keyed voice script the gateway plays. Field names follow the
// gateway's messages contract: welcome plays first, menuMessageN plays when
// key N is pressed, forwardNumberN forwards the live call after menuMessageN.
type Script struct {
	Welcome string `json:"welcome"`

	// Repeat is how many times the welcome message replays when no key is
	// pressed, as a string per the gateway contract.
	Repeat string `json:"repeat,omitempty"`

	MenuMessage1   string `json:"menuMessage1,omitempty"`
	MenuMessage2   string `json:"menuMessage2,omitempty"`
	ForwardNumber1 string `json:"forwardNumber1,omitempty"`
	ForwardNumber2 string `json:"forwardNumber2,omitempty"`
}

// Button declares one DTMF menu key.
type Button struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Voice messages, Bangla, written to sound like a real person calling.
const (
	welcomeTemplate = "আসসালামু আলাইকুম। %s ভাই, কেমন আছেন? আমি টোটো কোম্পানি থেকে বলছি। আপনি আমাদের কাছে একটি অর্ডার দিয়েছেন, যার মোট মূল্য %s টাকা। আপনার অর্ডারটি কনফার্ম করতে চাইলে, অনুগ্রহ করে আপনার ফোনের ১ নম্বর বাটন চাপুন। আর যদি আমাদের কারো সাথে কথা বলতে চান, তাহলে ২ নম্বর বাটন চাপুন। ধন্যবাদ।"

	confirmTemplate = "অনেক ধন্যবাদ, %s ভাই। আপনার অর্ডারটি সফলভাবে কনফার্ম হয়ে গেছে। ইনশাআল্লাহ, আমরা খুব শীঘ্রই আপনার ঠিকানায় পণ্য পৌঁছে দেবো। টোটো কোম্পানির সাথে থাকার জন্য আপনাকে আবারও ধন্যবাদ। আল্লাহ হাফেজ।"

	holdMessage = "ঠিক আছে ভাই, দয়া করে একটু অপেক্ষা করুন। আপনাকে এখন আমাদের কাস্টমার সার্ভিস প্রতিনিধির সাথে কানেক্ট করা হচ্ছে। কিছুক্ষণের মধ্যেই কথা বলতে পারবেন।"

	directWelcome = "আসসালামু আলাইকুম। আমি টোটো কোম্পানি থেকে বলছি। আপনাকে একটি জরুরি বিষয়ে জানাতে কল করেছি। আমাদের একজন প্রতিনিধির সাথে সরাসরি কথা বলতে চাইলে, অনুগ্রহ করে আপনার ফোনের ১ নম্বর বাটন চাপুন। ধন্যবাদ।"

	directHold = "ঠিক আছে, দয়া করে একটু অপেক্ষা করুন। আপনাকে এখন আমাদের প্রতিনিধির সাথে কানেক্ট করা হচ্ছে। কিছুক্ষণের মধ্যেই কথা বলতে পারবেন।"
)

// ConfirmationScript builds the order-confirmation call: a templated greeting
// naming the customer and total, key 1 confirms, key 2 forwards to an agent.
// welcome and confirm override the default templates when non-empty.
func ConfirmationScript(customerName string, total decimal.Decimal, forwardNumber, welcome, confirm string) Script {
	if welcome == "" {
		welcome = fmt.Sprintf(welcomeTemplate, customerName, total.String())
	}
	if confirm == "" {
		confirm = fmt.Sprintf(confirmTemplate, customerName)
	}
	return Script{
		Welcome:        welcome,
		Repeat:         "2",
		MenuMessage1:   confirm,
		MenuMessage2:   holdMessage,
		ForwardNumber2: forwardNumber,
	}
}

// ConfirmationButtons declares the two menu keys of the confirmation call.
func ConfirmationButtons() []Button {
	return []Button{
		{ID: "menuMessage1", Key: "1", Value: "Confirm"},
		{ID: "menuMessage2", Key: "2", Value: "Support"},
	}
}

// DirectScript builds an ad-hoc call not tied to any order: key 1 forwards
// straight to the configured number. message overrides the default welcome.
func DirectScript(message, forwardNumber string) Script {
	if message == "" {
		message = directWelcome
	}
	return Script{
		Welcome:        message,
		Repeat:         "2",
		MenuMessage1:   directHold,
		ForwardNumber1: forwardNumber,
	}
}

// DirectButtons declares the single connect key of a direct call.
func DirectButtons() []Button {
	return []Button{
		{ID: "menuMessage1", Key: "1", Value: "Connect"},
	}
}
