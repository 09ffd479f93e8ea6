package signing

// testPKCS12Material is a PKCS#12 bundle holding a self-signed
// certificate and its RSA key, protected with the password "fixture"
// using the legacy SHA1/3DES and RC2 ciphers the decoder supports.
const testPKCS12Material = "" +
	"MIIJWQIBAzCCCR8GCSqGSIb3DQEHAaCCCRAEggkMMIIJCDCCA78GCSqGSIb3DQEH" +
	"BqCCA7AwggOsAgEAMIIDpQYJKoZIhvcNAQcBMBwGCiqGSIb3DQEMAQYwDgQI13LK" +
	"Amex8zcCAggAgIIDeCaz6IEbtp26pJM5H6uSEEa7qvYYBAkbQwO17tdKDx5//K0m" +
	"wpfChRBqmfDgSTOXZT4sCkhDI6/vEHEBLuEKaEdZhoaBHxzh1rgBV8fgf6a70Pax" +
	"UKBEvEakiaBgolbDLFc5OPA3r7SNFIiBhv/ITB5dvoqKGITfwNpHhVSCcKsybhXA" +
	"Iw0uu0Q7Z/Lz3Z57On1NGbjb+aZy65+GhHEn9qiIMfLw2g/EQ5E0MdVVXpg7CjnB" +
	"fMpc4zhhT7eELmEfT9gLUFw5hYMAVB7oOlFc6za5TzZklyAJrgHjMwF9fBmERJ4h" +
	"vRUObpZKBCnfYJ1Gu+isiDbWoqhiXkBA+CjT0h3IH7DkUXi6EgpNAME6hYkWMPWo" +
	"xqL6wV2HNJva1JuIzAtHRpQ0uGyJWLD8e0V4i+Nrl4zAX8dFj2gPhT7eq7gwXF37" +
	"ssKo/eRriaBgSJ5u33zyF3FDMwbfyYX5lZWpSB+jcO1W5lD97cjPRgYYwejfYcip" +
	"LOeLKMLKvtO6rSmhK2c1jCiq1SEaFUzUAOohpJAhNzKGVwf7W5lLIfSnaM2vZFB9" +
	"2I1969AdceFHxGyS9glsIvNRQgyg7TZqe3QKNATThTM8zXK7bI6mC7tv5Yqr2M25" +
	"PmgbGnginekIsr2s4vOHMYBqZZfZhWAC5DhQsuSOMzGdOBzV43IBeeaTC/8gPmKf" +
	"mrSrNKb5/hBhPyv0CmkP/P8rsKPA582+uwfDBkak0LSMKhaiWhnFYo4mhmflKo9V" +
	"EdWkXrkHAe7bZ636txT9LqZtjCmbqtpDt2IHcwcghfbVAyjoP+XVUZwFszCvGDS5" +
	"pC0aF4asm6E6JfFFw8PlsQFvsXi1NtFikDL6k88IrKegTkFCz3iWlJD8v+4NInUk" +
	"jwHQ+pyY15xgiGiju2V0lDlbFzkYESoJ0QdDalVbQw2ouBaQt60Yo7gRShyDXLmF" +
	"/EYtK9yfOLZnlGS2nQixjPkZk3q/uj3n+2Lj4yvW3oopkHdMwHbVDjzndyBJFrAi" +
	"7whEhTJcUy9pcJEHEki7ZmT+RhPfpBcixZMdTSCOdIlF/CXVnjZb3EvPmwY99s6D" +
	"pWgwE1ozF20w1RvtJqPd4fqmBJBq44qA4Qw/ki+1q89u+JzhHxjZjOosJyhqkV0A" +
	"ddATk2aScanAs8j2Q7YzqGlvYZ1mP3tXZuTeeOUhh/xlxXdjSzCCBUEGCSqGSIb3" +
	"DQEHAaCCBTIEggUuMIIFKjCCBSYGCyqGSIb3DQEMCgECoIIE7jCCBOowHAYKKoZI" +
	"hvcNAQwBAzAOBAj6KBCJpNBS9gICCAAEggTIhmLm7f6pvkdcMeMwItajvHDpEg7v" +
	"oHaqLDDRAiqn6E+j2OGTDCfh1Ck4eHbFxcK+PXQLQ+DRpJk0Qmzi4SNzEEKPG32C" +
	"3g0XQuEg1IqBcPjOsF5wk1zabXPlkcDndbJwyFPbX3vFodm/yJjRSay3WpOMj689" +
	"ckk0e5gqC+pNCGDcKZnt2hAU0Qj7REaN+0NHreM54X3C7CWgYf4lFM/HtbrTt0fP" +
	"oOjJHjLEotQG0JbGV1Ud+hYQTBDoUiXLyFvbI11GJBmQ/8E6rNQNtO8t1d3r4R6h" +
	"Dkqizxb6KtBVg0/3+TMk1UF8IbLlmWeZ5risFrZg3iTksMieonK8Sl+scvE1YvCx" +
	"Q/v83soFfsy60PN6HIkR5TpKw0r8QM4xAiwdhIQQtjnR6VfKYZdyQLqp/r6/B4Y4" +
	"+u26BBqsITLlkhcQ9x5dI/a0Al1HWftONP44RIBZbZ6mYFKPYZSFCZQlM0e3vTv7" +
	"soCfmllgwUdkrP25z6bv06da6px108HjnLiGs/brHLyAN7+YQoPnHv/0pLLYa918" +
	"HLPNVOdzZHs55+SrLdtX1za0O0u48j0vMog8U2gLyqQgKlpzyWgShp5SbPdKxXw7" +
	"XxEuO6qh9Utz4F7cSyUSDi5gH5N0vYNjB7l8tIVTqnLV7mvt+E3qWrU+fLhc5//l" +
	"NRSwN3QALcXw417yAzBvd0V2yLnU1vBjjGsK3L6lRnV43/DmFsNIrAfurQt+l0rG" +
	"piGXEulH5cpIWKf+XDgBZ7G7WAdd6qwZf5wOeOCMYDEBFziDiBbq0wq1csJjXKbW" +
	"Mxo8uXnnYiaCLIAfNFQtWrENYGhrjzXFs4SCzKszJh2I5JWp7A9TotTqV12y8m4C" +
	"+vbUUw8qbU0gur5TAEJKwxkmYX/NpIdGAyHFe1PUoRjOEdzm9P1QO4YWmilj/+GV" +
	"Vsjq5BDTEcCtpurnFiK6YRrL0/mZS8r6QY3SWtEeHOM0s3p3ICPAeZlZWTs+Ogha" +
	"EXn1Tj59T5WKDtaQwMhJ5XBAjpAVictaGJFnihcN7Li4jrknuUBUJnO8axQoanMt" +
	"frdaQtkH7NdOY8coNmxgJ4a5WNWQ5rKTfdVlAT8K976U30aPqBGE+YhmjtWn+30/" +
	"Gj8+hfUcTXWtkZLjgiaLMtwc4QHfai8PFlVW4caadNXYGuQSpbBeG9Jkilfr4Upf" +
	"STK8owlBzVgFFrh7XQuWbehKL628KgYGQSo9dlM6q45lyXYBE9NhqtY3FYNJxf9v" +
	"9Jv9aYr2vtiq75QAyUNoQMxDuQ3aNf5C9cHVKFY1m/Zf2c8rqSJoR67PhI7qaVzS" +
	"IDk4wx0Wi2/NRCRkw47Qzm8iaaFeWE8C/WLnFC76QsGRKgA4vM2f7AkgzKzh56Y1" +
	"YJrugseri2NituccvZZY2XbTUsrjZKEOMuBUCBPzx37LyO+2m6ChGMVyKBxL/ogT" +
	"ZUbWmpjQbiH/0ZbmGrAmRBj5nDs62ib0As0YPA7Q4DX4dDfoToSvjahlmpsSuRez" +
	"ImTLwd/iW+SAyfmCKyN4PHkGcjyqoN55xHS089NI57wlwPKs71hT+zx4l4CuWZAk" +
	"sZySkusnSnzasbj7bJAPSORW4GtKl2A6N8gylF5OyzmsaOwhXLxo8SRxDPECQMc1" +
	"pC/fMSUwIwYJKoZIhvcNAQkVMRYEFIhajH4hccWrUQRzuH2zvugVupCxMDEwITAJ" +
	"BgUrDgMCGgUABBRzyMty/Fv04t7ZIoXPDktMGMbzewQIAGucBuxizp0CAggA"
