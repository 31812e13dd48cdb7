package content

const defaultLessonHTML = `
<h2>What is Phishing?</h2>
<p>Phishing is a social-engineering attack where attackers try to trick you into giving sensitive data (passwords, financial info) or executing actions (clicking malicious links, downloading attachments).</p>

<h3>How to recognize phishing emails &amp; fake websites</h3>
<ul>
  <li><strong>Check the sender address:</strong> Look beyond the display name. Is the domain slightly misspelled?</li>
  <li><strong>Urgency &amp; fear:</strong> Messages forcing immediate action ("Your account will be closed") are suspicious.</li>
  <li><strong>Unexpected attachments or links:</strong> Don't open or click without verifying.</li>
  <li><strong>Generic greetings:</strong> "Dear user" instead of your real name can be a sign.</li>
  <li><strong>Look for HTTPS and correct domain:</strong> but remember HTTPS alone is not proof of legitimacy.</li>
  <li><strong>Hover links:</strong> Hover (without clicking) to see the actual link target.</li>
</ul>

<h3>Social engineering tactics</h3>
<ul>
  <li><strong>Impersonation:</strong> Pretending to be a colleague, boss, or known service provider.</li>
  <li><strong>Authority &amp; urgency:</strong> Pretending to be IT or security requesting immediate password change.</li>
  <li><strong>Scarcity / reward:</strong> "You've won" or "Limited offer" to override caution.</li>
</ul>

<h3>Best practices</h3>
<ul>
  <li>Don't click suspicious links, type the site URL yourself.</li>
  <li>Verify via another channel (phone, IM) if you get unusual requests from colleagues.</li>
  <li>Use unique passwords + a password manager.</li>
  <li>Enable multi-factor authentication (MFA).</li>
  <li>Keep software and antivirus up to date.</li>
  <li>Report suspected phishing to your IT/security team.</li>
</ul>
`

// Default returns the built-in phishing awareness course.
func Default() Content {
	return Content{
		Lesson: Lesson{
			Title: "Phishing Awareness Training",
			HTML:  defaultLessonHTML,
			Checklist: []string{
				"Stop, think, verify.",
				"Check sender address and hover links.",
				"Never share credentials by email.",
				"Use MFA and a password manager.",
			},
		},
		Examples: []Example{
			{
				Title: "Example 1: Fake bank alert",
				Body: "From: security@bank-secure.com\n" +
					"Subject: Your account will be locked\n\n" +
					"Dear Customer,\n" +
					"We detected suspicious activity. Click here to verify your account now: http://bank-verify.example/login\n" +
					"Failure to verify will lock your accounts.",
				Rationale: "The domain is suspicious, the message creates urgency, and the link is not the official bank domain.",
			},
			{
				Title: "Example 2: CEO urgent payment request (spear-phish)",
				Body: "From: ceo@yourcompany.com\n" +
					"Subject: Urgent: Wire transfer\n\n" +
					"Hi,\n" +
					"I need you to transfer $15,000 to the account in the attached instructions immediately. Don't discuss this with anyone.\n" +
					"Regards,\nCEO",
				Rationale: "Impersonation + instruction to bypass normal controls. Verify by calling the CEO directly using a known number.",
			},
			{
				Title: "Example 3: Software update with attachment",
				Body: "From: updates@trusted-software.com\n" +
					"Subject: Critical security update (attached)\n\n" +
					"Please open the attached file to install the critical update.",
				Rationale: "Unexpected attachments are risky. Software vendors rarely send updates via email attachments, use official update channels.",
			},
		},
		Questions: []Question{
			{
				Prompt: "You receive an email from your bank asking you to click a link and sign in to avoid account suspension. What are the best first steps? (choose the best single answer)",
				Options: []string{
					"Click the link and sign in to avoid suspension.",
					"Ignore it entirely.",
					"Hover the link to inspect URL and contact the bank using a known channel to verify.",
					"Reply to the email asking if it's legitimate.",
				},
				CorrectIndex: 2,
			},
			{
				Prompt: "A message from your CEO asks for an urgent wire transfer and says 'don't mention this to anyone'. What should you do?",
				Options: []string{
					"Send the wire immediately to be helpful.",
					"Verify the request by calling the CEO using a phone number you already have.",
					"Reply to the email asking for account number again.",
					"Forward to the finance team without question.",
				},
				CorrectIndex: 1,
			},
			{
				Prompt: "Which of these is the least reliable indicator of a website's legitimacy?",
				Options: []string{
					"HTTPS padlock in the address bar.",
					"Correct registered company domain and content.",
					"Unexpected pop-ups requesting credentials.",
					"Receiving the site link only from a trusted source.",
				},
				CorrectIndex: 0,
			},
		},
	}
}
