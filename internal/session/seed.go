package session

import "github.com/matsen/blueprint/internal/graph"

// CareerNodes is the starter timeline shown in the default graph until it
// is first edited.
func CareerNodes() []graph.Node {
	return []graph.Node{
		{
			ID:          "node1",
			Type:        graph.TypeEvent,
			Title:       "Event BeginPlay (2018)",
			Subtitle:    "University Degree",
			Description: "Graduated with a BS in Computer Science. Specialized in Graphics Programming and AI.",
			Details:     "Focus on C++ and OpenGL. \nGPA: 4.0\nAwarded Best Capstone Project.",
			Year:        2018,
			X:           100,
			Y:           150,
			Next:        "node2",
		},
		{
			ID:          "node2",
			Type:        graph.TypeFunction,
			Title:       "Joined Game Studio A",
			Subtitle:    "Junior Developer",
			Description: "Worked on UI systems and gameplay mechanics for an RPG title.",
			Details:     "Responsible for inventory system and quest log.\nTech: UE4, C++.",
			Year:        2019,
			X:           500,
			Y:           150,
			Next:        "node3",
		},
		{
			ID:          "node3",
			Type:        graph.TypeFunction,
			Title:       "Promoted to Senior",
			Subtitle:    "Senior Gameplay Engineer",
			Description: "Led the combat team for 'Project X'.",
			Details:     "Designed the ability system architecture.\nMentored 3 junior devs.",
			Year:        2021,
			X:           900,
			Y:           150,
			Next:        "node4",
		},
		{
			ID:          "node4",
			Type:        graph.TypeFunction,
			Title:       "Joined FTS GLOBAL",
			Subtitle:    "Lead Technical Designer",
			Description: "Focusing on advanced simulation and anticheat systems.",
			Details:     "Company Link: https://fts-global.com\nSpecialized in Ballistics and System Security.",
			Year:        2023,
			X:           1300,
			Y:           150,
		},
	}
}
