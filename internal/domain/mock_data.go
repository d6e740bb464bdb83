package domain

var mockStaffRecords = []StaffRecord{
	{
		ID:          "1",
		Name:        "Sarah Johnson",
		Position:    "Senior Software Engineer",
		Department:  "Engineering",
		PhotoURL:    "https://images.unsplash.com/photo-1494790108377-be9c29b29330",
		Bio:         "Sarah is a senior software engineer with over 8 years of experience in full-stack development. She specializes in React and Node.js applications.",
		OfficeHours: "Mon-Fri, 9:00 AM - 5:00 PM",
		Email:       "sarah.johnson@example.com",
		Phone:       "(555) 123-4567",
		Location:    "Building A, Floor 3",
	},
	{
		ID:          "2",
		Name:        "Michael Chen",
		Position:    "Product Manager",
		Department:  "Product",
		PhotoURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d",
		Bio:         "Michael leads product strategy and development, working closely with engineering and design teams to deliver innovative solutions.",
		OfficeHours: "Mon-Fri, 8:30 AM - 4:30 PM",
		Email:       "michael.chen@example.com",
		Phone:       "(555) 234-5678",
		Location:    "Building B, Floor 2",
	},
	{
		ID:          "3",
		Name:        "Emily Rodriguez",
		Position:    "UX Designer",
		Department:  "Design",
		PhotoURL:    "https://images.unsplash.com/photo-1438761681033-6461ffad8d80",
		Bio:         "Emily is a UX designer passionate about creating intuitive and accessible user experiences. She has a background in psychology and human-computer interaction.",
		OfficeHours: "Mon-Thu, 10:00 AM - 6:00 PM",
		Email:       "emily.rodriguez@example.com",
		Phone:       "(555) 345-6789",
		Location:    "Building A, Floor 2",
	},
}

// MockStaffRecords returns a fresh copy of the built-in dataset served when
// the sheet source is unavailable.
func MockStaffRecords() []StaffRecord {
	return CloneRecords(mockStaffRecords)
}
