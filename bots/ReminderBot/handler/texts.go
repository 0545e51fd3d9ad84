package handler

const (
	txtInvalidTime = "Sorry, that time doesn't make sense."
	txtTimeInPast  = "Sorry, the time can't be in the past."

	// Usage is a short description of the bot.
	Usage = `Reminder Bot can remind users of whatever they want. No setup is
necessary. Send it "help" to see the very-simple usage instructions.`

	// HelpMessage is sent back when the bot is asked for help or addressed
	// with an empty message.
	HelpMessage = `Reminder Bot can remind you of whatever you want. It has 2 modes: advanced and normal.

---

In normal mode you can just send a message to Reminder Bot and have it remind you in 5 minutes.

 > @ReminderBot Walk the dog.

…and then 5 minutes later in a private message from Reminder Bot…

 > Walk the dog.

---

In advanced mode you can control when to get the reminder and whether it should be public or private. You have to put your reminder in quotes.

For example,

 > @ReminderBot "Water the plants." in 20 minutes

or

 > @ReminderBot "Water the plants." in 20 mins

or even

 > @ReminderBot "Water the plants." in 20 seconds

…and then in a private message…

 > Water the plants.

You can also pick the time of day

 > @ReminderBot "Call mom." at 6:30 p.m.

The time can't be in the past, and quotes inside the reminder aren't supported.

You can also do

 > @ReminderBot "Take out the trash." public

…and then, in the current chat for everybody to see…

 > @you Take out the trash.

Or, you can do both at once

 > @ReminderBot "Make the bed." in 30 minutes public

…and then, in the current chat 30 minutes later…

 > @you Make the bed.`
)
