package tinybasic

//
// The logo and the help text for the command language
//

const logo = `
  Tiny BASIC Plus - tbp
   _______ ____
  |__   __|  _ \
     | |  | |_) |_ __
     | |  |  _ <| '_ \
     | |  | |_) | |_) |
     |_|  |____/| .__/
                | |
                |_| version ` + VERSION + `
   Party like it's 1976!
`

// Feel free to add more events that happened in 1976.
var taglines = []string{
	"Look at that cool CN tower in Toronto!",
	"'Adrian! Adrian!', screams Rocky.",
	"The Space Shuttle Flies!",
	"What do I do with a $2.00 bill?",
	"We are competing with Apple here!",
	"Wow! Nadia Comaneci can sure flip and twist!",
	"Lookin' good for the Bicentennial!",
	"Let's go to the Montreal Olympics!",
	"Watch out! The Cray-1 is coming!",
	"Star Wars Episode IV started filming. May the Force be with them.",
	"Vikings 1 and 2 say hello from Mars.",
	"Did you catch the Ramones at CBGB's?",
	"Stevie Wonder's 'Songs in the Key of Life' is so, so good!",
	"Diffie-Hellman key exchange cryptography is invented!",
	"The last slide rule just got manufactured by Keuffel and Esser.",
	"We are competing with Microsoft here!",
	"King Kong returns to the screen.",
	"James Hunt wins by one point!",
}

const fullHelp = `
A complete Tiny BASIC interpreter and debugger.

Command Line Options
--------------------
-h | --help
    - Shows the command line option help and exits.
-c | --commands "command^command^command"
    - Executes the commands as though they were typed in by the user.
    - Use the carat character (^) to separate statements.
--nologo
    - Doesn't show the awesome logo. :(

At the tbp prompt, you can enter both Tiny BASIC code and direct execution
statements, such as RUN. For the debugger and tbp state information, use the
command language, which are commands that start with the '%' character and are
case-insensitive.

Information and State Commands
------------------------------
%help
    - This full help information.
%?
    - Short help of just the command language.
%quit | %q
    - Quit tbp.
%lint (strict)
    - Lint the program in memory for possible errors.
    - The strict option does more uninitialized checking.
%loadfile | %lf  "<filename>"
    - Clears all programs, the GOSUB stack, RUN input variables, from memory.
    - The quotes around the filename are required.
    - All Tiny BASIC statements, direct execution statements, and any command
      language statements in "<filename>" are executed as though they were
      typed in by the user.
    - If run_on_load is True, after loading and parsing the file, tbp will
      execute a RUN direct execution statement.
    - Disabled when debugging.
%savefile | %sf "<filename>"
    - Saves the currently loaded program to "<filename>".
    - The quotes around the filename are required.
%opt log | run_on_load | time (true | t | false | f)
    - Set or view the option setting. For all, true is on, false is off. No
      parameter shows the current state of the option.
    - %opt log
       - Controls if tbp internal diagnostic logging is shown.
    - %opt run_on_load
      - Controls if tbp does a direct execution RUN after loading a file.
    - %opt time
      - Controls if tbp displays the execution time of each line.

Debugging Commands
------------------
%bp | %break linenumber
     - Sets a breakpoint on the linenumber. No params lists breakpoints.
%d  | %delete linenumber | *
     - Deletes a breakpoint on linenumber or all with *.
%c  | %continue
     - Continues execution after stopping at a breakpoint.
%s  | %step
     - Steps the next line, stepping into any GOTO or GOSUB statements.
%v  | %vars
     - Displays all the initialized variables.
%bt | %backtrace
     - Display the call stack.
%e  | %exit
     - Exit the debugger and return to tbp prompt.
`

const shortHelp = `
Information and State Commands
------------------------------
%help
    - Full help information.
%?
    - This help for the command language.
%quit | %q
    - Quit tbp.
%lint (strict)
    - Lint the program in memory for possible errors.
%loadfile | %lf  "<filename>"
    - Clears everything and loads a file.
%savefile | %sf "<filename>"
    - Saves the loaded program to a file.
%opt (log | run_on_load | time) (true | t | false | f)
    - Set or view the option setting.

Debugging Commands
------------------
%bp | %break linenumber
     - Sets a breakpoint on the linenumber. No params lists breakpoints.
%d  | %delete linenumber | *
     - Deletes a breakpoint on linenumber or all with *.
%c  | %continue
     - Continues execution after stopping at a breakpoint.
%s  | %step
     - Steps the next line, stepping into any GOTO or GOSUB statements.
%v  | %vars
     - Displays all the initialized variables.
%bt | %backtrace
     - Display the call stack.
%e  | %exit
     - Exit the debugger and return to tbp prompt.
`
