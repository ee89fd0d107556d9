// Package sitedata holds the static personal data shown on the site:
// project lists and recommendations. Accessors return copies.
package sitedata

import "slices"

// Project is a showcased project. LiveURL is empty for unreleased work.
type Project struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	LiveURL     string `json:"liveUrl,omitempty" yaml:"live_url,omitempty"`
	CodeURL     string `json:"codeUrl" yaml:"code_url"`
}

type Recommender struct {
	Name               string `json:"name" yaml:"name"`
	Title              string `json:"title" yaml:"title"`
	LinkedInProfileURL string `json:"linkedinProfileUrl" yaml:"linkedin_profile_url"`
	ImageSource        string `json:"imageSource" yaml:"image_source"`
}

type Recommendation struct {
	Recommender Recommender `json:"recommender" yaml:"recommender"`
	Text        string      `json:"recommendationText" yaml:"text"`
}

// AboutProjects lists the projects featured on the about page.
func AboutProjects() []Project { return slices.Clone(aboutProjects) }

// FinishedProjects lists completed projects.
func FinishedProjects() []Project { return slices.Clone(finishedProjects) }

// WIPProjects lists projects still in progress.
func WIPProjects() []Project { return slices.Clone(wipProjects) }

func Recommendations() []Recommendation { return slices.Clone(recommendations) }

var aboutProjects = []Project{
	{
		Name:        "Cockpit (working on adding test user)",
		Description: "NX monorepo for my frontend cockpit project apps. Cockpit project is several apps helping boosting my productivy or life quality in general. Managing budget, helping with newsletters etc. ",
		LiveURL:     "https://cockpit.parda.me/",
		CodeURL:     "https://github.com/marcinparda/cockpit-app",
	},
	{
		Name:        "Cockpit API",
		Description: "FastAPI backend for cockpit projects. It is meant to be refactored to microservices in the future.",
		LiveURL:     "https://api.parda.me/api/docs",
		CodeURL:     "https://github.com/marcinparda/cockpit-api",
	},
	{
		Name:        "parda.me",
		Description: "My technical blog. Page that you are currently on ☺️ It's built with Astro and TailwindCSS.",
		LiveURL:     "https://parda.me/",
		CodeURL:     "https://github.com/MarcinParda/parda.me",
	},
}

var finishedProjects = []Project{
	{
		Name:        "My previous blog",
		Description: "My previous digital garden. It was built with Next.js and was quite similar to this one.",
		LiveURL:     "https://marcinparda.vercel.app/",
		CodeURL:     "https://github.com/MarcinParda/marcinparda-blog",
	},
	{
		Name:        "parda.me",
		Description: "Page that you are currently on. It's built with Astro and TailwindCSS.",
		LiveURL:     "https://parda.me/",
		CodeURL:     "https://github.com/MarcinParda/parda.me",
	},
	{
		Name:        "Firebase superchat",
		Description: "Chat where all the users can talk to each other. It's possible to login with Google account.",
		LiveURL:     "https://superchat-cc2d4.web.app/",
		CodeURL:     "https://github.com/MarcinParda/firebase-superchat",
	},
}

var wipProjects = []Project{
	{
		Name:        "IT flashcards",
		Description: "Flashcards Anki-like app for IT people. It's powered with AI and built with Nx, Nest.js & Next.js.",
		CodeURL:     "https://github.com/MarcinParda/it-flashcards",
	},
}

var recommendations = []Recommendation{
	{
		Text: "Marcin is a JavaScript developer with a vast range of skills. He has a great knowledge about many frameworks, which I personally admire. Great understanding of software development lets him tackle even the most complex software and JavaScript solutions. I had a pleasure of working with Marcin and apart from his high technical skills he was a great team member. Always willing to help out and share programming knowledge when needed, and was very proactive in identifying potential issues.",
		Recommender: Recommender{
			Name:               "Grzegorz Długokęcki",
			Title:              "Senior Frontend Developer",
			LinkedInProfileURL: "https://www.linkedin.com/in/grzegorz-d%C5%82ugok%C4%99cki-00647916a/",
			ImageSource:        "grzegorz.png",
		},
	},
	{
		Text: "I worked with Marcin on different cooperation levels. For some time I was his team lead. This way he showed he is a great software developer. He was a team player who always helped teammates in their daily work. On the other hand, he didn't have a problem understanding the business requirements, and he wasn't afraid to speak about his vision of the software and suggestions to make it better, and better. Cooperating with Marcin on the same team was a pleasure. I love the way how he was explaining frontend solutions, suggested improvements in a code, and mentored me. To sum up - Marcin is great software developer and team player!",
		Recommender: Recommender{
			Name:               "Szymon Darmofał",
			Title:              "Senior Backend Developer",
			LinkedInProfileURL: "https://www.linkedin.com/in/sdarmofal/",
			ImageSource:        "szymi.png",
		},
	},
}
