// Package log builds the slog loggers used by planetpage.
//
// Every logger returned here is wrapped in a SecureHandler, which masks
// credential-like attributes (Authorization headers, cookies, tokens) and
// strips passwords from URLs embedded in attribute values or messages.
//
//	logger, closeLog, err := log.NewLogger(os.Stderr, verbose, cfg.LogFile)
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//
// Without a log file, output goes to stderr as text at Warn level, or Debug
// in verbose mode. With a log file, slog-multi fans each record out to the
// text handler and to a JSON handler on the file.
package log
